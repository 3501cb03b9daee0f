// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package ast defines the floop AST node variants. Nodes are built once
// by the parser and read-only thereafter.
package ast

import (
	"fmt"

	"nickandperla.net/floop/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode() // sealed marker
}

// Program is a parsed source unit: procedure definitions followed by
// the main statement sequence.
type Program struct {
	Procs []*ProcDef
	Stmts []Stmt
}

// ProcDef is a DEFINE PROCEDURE declaration. It is registered in the
// procedure table at load time, never executed as a statement. The
// return cell is always OUTPUT.
type ProcDef struct {
	DefPos token.Pos
	Name   string
	Params []string
	Body   *Block
	Src    string // raw source of the definition, for persistence
}

func (d *ProcDef) Pos() token.Pos { return d.DefPos }

// Block is a labeled statement group: BLOCK n: BEGIN ... BLOCK n: END.
// The closing label must match the opening label; the parser enforces
// this along with label uniqueness within the enclosing scope.
type Block struct {
	BlockPos token.Pos
	Label    int
	Stmts    []Stmt
}

func (b *Block) Pos() token.Pos { return b.BlockPos }
func (b *Block) stmtNode()      {}

// BoundedLoop is LOOP [AT MOST] expr TIMES: block. The bound is
// evaluated exactly once at loop entry.
type BoundedLoop struct {
	LoopPos token.Pos
	Bound   Expr
	Body    *Block
}

func (l *BoundedLoop) Pos() token.Pos { return l.LoopPos }
func (l *BoundedLoop) stmtNode()      {}

// UnboundedLoop is MU-LOOP: block. It repeats until an abort signal;
// without a reachable abort it never terminates.
type UnboundedLoop struct {
	LoopPos token.Pos
	Body    *Block
}

func (l *UnboundedLoop) Pos() token.Pos { return l.LoopPos }
func (l *UnboundedLoop) stmtNode()      {}

// AbortLoop is ABORT LOOP IF expr;. When the condition is non-zero it
// terminates the nearest dynamically enclosing loop.
type AbortLoop struct {
	AbortPos token.Pos
	Cond     Expr
}

func (a *AbortLoop) Pos() token.Pos { return a.AbortPos }
func (a *AbortLoop) stmtNode()      {}

// QuitBlock is QUIT BLOCK n;. It exits the enclosing block with the
// matching label.
type QuitBlock struct {
	QuitPos token.Pos
	Label   int
}

func (q *QuitBlock) Pos() token.Pos { return q.QuitPos }
func (q *QuitBlock) stmtNode()      {}

// If is IF expr, THEN: block.
type If struct {
	IfPos token.Pos
	Cond  Expr
	Then  *Block
}

func (i *If) Pos() token.Pos { return i.IfPos }
func (i *If) stmtNode()      {}

// Assign is lvalue <= expr;. Cells hold naturals only: a negative
// result is a runtime fault.
type Assign struct {
	Target *CellRef
	Value  Expr
}

func (a *Assign) Pos() token.Pos { return a.Target.Pos() }
func (a *Assign) stmtNode()      {}

// CellKind discriminates the three cell reference forms.
type CellKind int

const (
	CellIndexed CellKind = iota // CELL(n)
	CellNamed                   // procedure parameter / named cell
	CellOutput                  // OUTPUT
)

// CellRef names a storage cell. It is both an lvalue and an expression.
type CellRef struct {
	RefPos token.Pos
	Kind   CellKind
	Index  int    // CellIndexed
	Name   string // CellNamed
}

func (c *CellRef) Pos() token.Pos { return c.RefPos }
func (c *CellRef) exprNode()      {}

// Key returns the environment key for this cell.
func (c *CellRef) Key() string {
	switch c.Kind {
	case CellIndexed:
		return fmt.Sprintf("CELL(%d)", c.Index)
	case CellOutput:
		return "OUTPUT"
	default:
		return c.Name
	}
}

// Literal is an unsigned integer literal (YES and NO lex to 1 and 0).
type Literal struct {
	LitPos token.Pos
	Value  int64
}

func (l *Literal) Pos() token.Pos { return l.LitPos }
func (l *Literal) exprNode()      {}

// Op is a binary operator.
type Op int

const (
	OpAdd Op = iota // +
	OpSub           // -
	OpMul           // *
	OpDiv           // / (floor)
	OpEq            // =  yields 0/1
	OpLt            // <  yields 0/1
	OpGt            // >  yields 0/1
)

var opNames = [...]string{"+", "-", "*", "/", "=", "<", ">"}

// String returns the operator's surface spelling.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "?"
}

// BinaryOp applies Op to two subexpressions.
type BinaryOp struct {
	OpPos token.Pos
	Op    Op
	Left  Expr
	Right Expr
}

func (b *BinaryOp) Pos() token.Pos { return b.OpPos }
func (b *BinaryOp) exprNode()      {}

// ProcCall invokes a defined procedure with argument expressions.
type ProcCall struct {
	CallPos token.Pos
	Name    string
	Args    []Expr
}

func (c *ProcCall) Pos() token.Pos { return c.CallPos }
func (c *ProcCall) exprNode()      {}
