// Package parser builds floop ASTs from source text.
//
// The grammar mirrors the language's block/loop/statement/expression
// structure directly:
//
//	program : decl* stmt*
//	decl    : DEFINE PROCEDURE "NAME" [P1, ...] : block
//	block   : BLOCK n : BEGIN stmt* BLOCK n : END
//	stmt    : loop | muloop | cond | quit | abort | assign | block
//
// Beyond shape, the parser enforces the load-time checks: matching and
// locally-unique block labels, ABORT only inside a loop, and QUIT only
// targeting an enclosing block.
package parser

import (
	"fmt"
	"strconv"

	"nickandperla.net/floop/internal/ast"
	"nickandperla.net/floop/internal/scanner"
	"nickandperla.net/floop/internal/token"
)

// SyntaxError reports malformed source with its position.
type SyntaxError struct {
	Pos token.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parse tokenizes and parses a complete source unit.
func Parse(src string) (*ast.Program, error) {
	toks, err := scanner.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{src: src, toks: toks}
	return p.parseProgram()
}

// Parser is a recursive-descent parser over a scanned token slice.
type Parser struct {
	src  string
	toks []token.Token
	pos  int

	loopDepth   int
	blockLabels []int          // open enclosing block labels, for QUIT
	labelScopes []map[int]bool // label uniqueness per enclosing scope
}

func (p *Parser) cur() token.Token {
	return p.at(p.pos)
}

func (p *Parser) at(i int) token.Token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// prev returns the most recently consumed token.
func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) errf(pos token.Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	t := p.cur()
	if t.Kind != kind {
		return t, p.errf(t.Pos, "expected %s, found %s", kind, t)
	}
	return p.advance(), nil
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.labelScopes = []map[int]bool{{}}

	seen := map[string]token.Pos{}
	for p.cur().Kind == token.DEFINE {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		if prior, ok := seen[decl.Name]; ok {
			return nil, p.errf(decl.DefPos, "procedure %q already defined at %s", decl.Name, prior)
		}
		seen[decl.Name] = decl.DefPos
		prog.Procs = append(prog.Procs, decl)
	}

	for p.cur().Kind != token.EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

// parseDecl parses DEFINE PROCEDURE "NAME" [P1, P2]: block. Loop depth
// and block labels do not cross the procedure boundary.
func (p *Parser) parseDecl() (*ast.ProcDef, error) {
	defTok, err := p.expect(token.DEFINE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PROCEDURE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.QUOTE); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.QUOTE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}

	var params []string
	if p.cur().Kind != token.RBRACKET {
		for {
			paramTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			for _, prior := range params {
				if prior == paramTok.Text {
					return nil, p.errf(paramTok.Pos, "duplicate parameter %q", paramTok.Text)
				}
			}
			params = append(params, paramTok.Text)
			if p.cur().Kind != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}

	savedDepth, savedLabels := p.loopDepth, p.blockLabels
	p.loopDepth, p.blockLabels = 0, nil
	p.labelScopes = append(p.labelScopes, map[int]bool{})

	body, err := p.parseBlock()

	p.labelScopes = p.labelScopes[:len(p.labelScopes)-1]
	p.loopDepth, p.blockLabels = savedDepth, savedLabels
	if err != nil {
		return nil, err
	}

	return &ast.ProcDef{
		DefPos: defTok.Pos,
		Name:   nameTok.Text,
		Params: params,
		Body:   body,
		Src:    p.src[defTok.Offset:p.prev().End()],
	}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	blockTok, err := p.expect(token.BLOCK)
	if err != nil {
		return nil, err
	}
	numTok, err := p.expect(token.NUMBER)
	if err != nil {
		return nil, err
	}
	label, err := p.parseLabel(numTok)
	if err != nil {
		return nil, err
	}

	scope := p.labelScopes[len(p.labelScopes)-1]
	if scope[label] {
		return nil, p.errf(numTok.Pos, "block label %d already used in enclosing scope", label)
	}
	scope[label] = true

	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BEGIN); err != nil {
		return nil, err
	}

	p.blockLabels = append(p.blockLabels, label)
	p.labelScopes = append(p.labelScopes, map[int]bool{})

	block := &ast.Block{BlockPos: blockTok.Pos, Label: label}
	for !p.atBlockClose() {
		if p.cur().Kind == token.EOF {
			return nil, p.errf(p.cur().Pos, "unexpected end of input inside BLOCK %d", label)
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	p.labelScopes = p.labelScopes[:len(p.labelScopes)-1]
	p.blockLabels = p.blockLabels[:len(p.blockLabels)-1]

	p.advance() // BLOCK
	closeTok, err := p.expect(token.NUMBER)
	if err != nil {
		return nil, err
	}
	closeLabel, err := p.parseLabel(closeTok)
	if err != nil {
		return nil, err
	}
	if closeLabel != label {
		return nil, p.errf(closeTok.Pos, "block labels do not match: %d vs %d", label, closeLabel)
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.END); err != nil {
		return nil, err
	}
	return block, nil
}

// atBlockClose reports whether the parser sits on BLOCK n: END.
func (p *Parser) atBlockClose() bool {
	return p.cur().Kind == token.BLOCK &&
		p.at(p.pos+1).Kind == token.NUMBER &&
		p.at(p.pos+2).Kind == token.COLON &&
		p.at(p.pos+3).Kind == token.END
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.BLOCK:
		return p.parseBlock()
	case token.LOOP:
		return p.parseLoop()
	case token.MULOOP:
		return p.parseMuLoop()
	case token.IF:
		return p.parseIf()
	case token.QUIT:
		return p.parseQuit()
	case token.ABORT:
		return p.parseAbort()
	case token.CELL, token.OUTPUT, token.IDENT:
		return p.parseAssign()
	default:
		return nil, p.errf(p.cur().Pos, "expected statement, found %s", p.cur())
	}
}

// parseLoop parses LOOP [AT MOST] expr TIMES: block. Both spellings
// share the bounded-loop semantics.
func (p *Parser) parseLoop() (ast.Stmt, error) {
	loopTok := p.advance()
	if p.cur().Kind == token.AT {
		p.advance()
		if _, err := p.expect(token.MOST); err != nil {
			return nil, err
		}
	}
	bound, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TIMES); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.parseBlock()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.BoundedLoop{LoopPos: loopTok.Pos, Bound: bound, Body: body}, nil
}

func (p *Parser) parseMuLoop() (ast.Stmt, error) {
	loopTok := p.advance()
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.parseBlock()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.UnboundedLoop{LoopPos: loopTok.Pos, Body: body}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	ifTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.If{IfPos: ifTok.Pos, Cond: cond, Then: body}, nil
}

// parseQuit parses QUIT BLOCK n;. The label must name an enclosing
// block, so the signal is always caught.
func (p *Parser) parseQuit() (ast.Stmt, error) {
	quitTok := p.advance()
	if _, err := p.expect(token.BLOCK); err != nil {
		return nil, err
	}
	numTok, err := p.expect(token.NUMBER)
	if err != nil {
		return nil, err
	}
	label, err := p.parseLabel(numTok)
	if err != nil {
		return nil, err
	}
	enclosed := false
	for _, open := range p.blockLabels {
		if open == label {
			enclosed = true
			break
		}
	}
	if !enclosed {
		return nil, p.errf(quitTok.Pos, "QUIT BLOCK %d does not name an enclosing block", label)
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.QuitBlock{QuitPos: quitTok.Pos, Label: label}, nil
}

// parseAbort parses ABORT LOOP IF expr;. Outside a loop the signal
// could never be caught, so it is rejected here rather than at runtime.
func (p *Parser) parseAbort() (ast.Stmt, error) {
	abortTok := p.advance()
	if _, err := p.expect(token.LOOP); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IF); err != nil {
		return nil, err
	}
	if p.loopDepth == 0 {
		return nil, p.errf(abortTok.Pos, "ABORT LOOP does not belong to any loop")
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.AbortLoop{AbortPos: abortTok.Pos, Cond: cond}, nil
}

func (p *Parser) parseAssign() (ast.Stmt, error) {
	target, err := p.parseLvalue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Assign{Target: target, Value: value}, nil
}

func (p *Parser) parseLvalue() (*ast.CellRef, error) {
	t := p.cur()
	switch t.Kind {
	case token.CELL:
		return p.parseCell()
	case token.OUTPUT:
		p.advance()
		return &ast.CellRef{RefPos: t.Pos, Kind: ast.CellOutput}, nil
	case token.IDENT:
		p.advance()
		return &ast.CellRef{RefPos: t.Pos, Kind: ast.CellNamed, Name: t.Text}, nil
	default:
		return nil, p.errf(t.Pos, "expected CELL, OUTPUT, or name, found %s", t)
	}
}

// parseCell parses CELL(n).
func (p *Parser) parseCell() (*ast.CellRef, error) {
	cellTok := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	numTok, err := p.expect(token.NUMBER)
	if err != nil {
		return nil, err
	}
	index, err := p.parseLabel(numTok)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.CellRef{RefPos: cellTok.Pos, Kind: ast.CellIndexed, Index: index}, nil
}

// Expressions. A comparison joins at most two sums; arithmetic is
// left-associative with the usual precedence.

func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	var op ast.Op
	switch p.cur().Kind {
	case token.EQ:
		op = ast.OpEq
	case token.LT:
		op = ast.OpLt
	case token.GT:
		op = ast.OpGt
	default:
		return left, nil
	}
	opTok := p.advance()
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{OpPos: opTok.Pos, Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseSum() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.cur().Kind {
		case token.PLUS:
			op = ast.OpAdd
		case token.MINUS:
			op = ast.OpSub
		default:
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{OpPos: opTok.Pos, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.cur().Kind {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		default:
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{OpPos: opTok.Pos, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case token.NUMBER:
		p.advance()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, p.errf(t.Pos, "number %s out of range", t.Text)
		}
		return &ast.Literal{LitPos: t.Pos, Value: v}, nil

	case token.YES:
		p.advance()
		return &ast.Literal{LitPos: t.Pos, Value: 1}, nil

	case token.NO:
		p.advance()
		return &ast.Literal{LitPos: t.Pos, Value: 0}, nil

	case token.CELL:
		return p.parseCell()

	case token.OUTPUT:
		p.advance()
		return &ast.CellRef{RefPos: t.Pos, Kind: ast.CellOutput}, nil

	case token.IDENT:
		p.advance()
		if p.cur().Kind == token.LPAREN {
			return p.parseCallArgs(t)
		}
		return &ast.CellRef{RefPos: t.Pos, Kind: ast.CellNamed, Name: t.Text}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errf(t.Pos, "expected expression, found %s", t)
	}
}

func (p *Parser) parseCallArgs(nameTok token.Token) (ast.Expr, error) {
	p.advance() // (
	call := &ast.ProcCall{CallPos: nameTok.Pos, Name: nameTok.Text}
	if p.cur().Kind != token.RPAREN {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.cur().Kind != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

// parseLabel converts a NUMBER token to a small non-negative int.
func (p *Parser) parseLabel(t token.Token) (int, error) {
	n, err := strconv.Atoi(t.Text)
	if err != nil {
		return 0, p.errf(t.Pos, "number %s out of range", t.Text)
	}
	return n, nil
}
