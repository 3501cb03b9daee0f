package eval

import (
	"context"

	"nickandperla.net/floop/internal/ast"
)

// ctrl is the control outcome of executing a statement. Abort and quit
// are structured non-local exits, not errors: each is caught by the
// nearest enclosing loop or the matching labeled block.
type ctrl int

const (
	ctrlNormal ctrl = iota
	ctrlAbort
	ctrlQuit
)

type signal struct {
	kind  ctrl
	label int // quit target
}

// Evaluator executes a parsed program against a cell environment. One
// evaluator owns its environment and output sequence for the duration
// of a run; the procedure table it reads is shared and immutable.
type Evaluator struct {
	procs     *ProcTable
	outputs   []int64
	callDepth int
}

// New creates an Evaluator reading the given procedure table.
func New(procs *ProcTable) *Evaluator {
	return &Evaluator{procs: procs}
}

// Run executes a program with the given input values bound to CELL(0),
// CELL(1), ... of the root scope, and returns the output sequence.
//
// On a runtime fault or cancellation the outputs produced so far are
// still returned alongside the error. The context is checked at each
// statement boundary; the evaluator itself has no step limit — an
// unbounded loop with no reachable abort runs forever, which is the
// language working as intended.
func (e *Evaluator) Run(ctx context.Context, prog *ast.Program, inputs []int64) ([]int64, error) {
	e.outputs = nil
	env := NewEnv()
	env.Define("OUTPUT", 0)
	for i, v := range inputs {
		env.Define((&ast.CellRef{Kind: ast.CellIndexed, Index: i}).Key(), v)
	}
	return e.RunStmts(ctx, prog.Stmts, env)
}

// RunStmts executes statements against an existing environment and
// returns the outputs produced by this call. Used by Run and by REPL
// sessions that keep one environment alive across inputs.
func (e *Evaluator) RunStmts(ctx context.Context, stmts []ast.Stmt, env *Env) ([]int64, error) {
	mark := len(e.outputs)
	_, err := e.execStmts(ctx, stmts, env)
	return e.outputs[mark:], err
}

func (e *Evaluator) execStmts(ctx context.Context, stmts []ast.Stmt, env *Env) (signal, error) {
	for _, s := range stmts {
		if ctx.Err() != nil {
			return signal{}, ErrCancelled
		}
		sig, err := e.execStmt(ctx, s, env)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != ctrlNormal {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (e *Evaluator) execStmt(ctx context.Context, s ast.Stmt, env *Env) (signal, error) {
	switch s := s.(type) {
	case *ast.Block:
		return e.execBlock(ctx, s, env)

	case *ast.BoundedLoop:
		return e.execBoundedLoop(ctx, s, env)

	case *ast.UnboundedLoop:
		return e.execUnboundedLoop(ctx, s, env)

	case *ast.AbortLoop:
		cond, err := e.evalExpr(ctx, s.Cond, env)
		if err != nil {
			return signal{}, err
		}
		if cond != 0 {
			return signal{kind: ctrlAbort}, nil
		}
		return signal{}, nil

	case *ast.QuitBlock:
		return signal{kind: ctrlQuit, label: s.Label}, nil

	case *ast.If:
		cond, err := e.evalExpr(ctx, s.Cond, env)
		if err != nil {
			return signal{}, err
		}
		if cond != 0 {
			return e.execBlock(ctx, s.Then, env)
		}
		return signal{}, nil

	case *ast.Assign:
		return signal{}, e.execAssign(ctx, s, env)
	}
	return signal{}, nil
}

// execBlock runs the block's statements under a fresh scope. The scope
// is popped however control leaves, and a quit signal naming this block
// is absorbed here.
func (e *Evaluator) execBlock(ctx context.Context, b *ast.Block, env *Env) (signal, error) {
	env.Push()
	defer env.Pop()

	sig, err := e.execStmts(ctx, b.Stmts, env)
	if err != nil {
		return signal{}, err
	}
	if sig.kind == ctrlQuit && sig.label == b.Label {
		return signal{}, nil
	}
	return sig, nil
}

// execBoundedLoop evaluates the bound exactly once, at entry. Mutating
// cells the bound referenced has no effect on the committed iteration
// count; a non-positive bound means zero iterations.
func (e *Evaluator) execBoundedLoop(ctx context.Context, l *ast.BoundedLoop, env *Env) (signal, error) {
	bound, err := e.evalExpr(ctx, l.Bound, env)
	if err != nil {
		return signal{}, err
	}
	for i := int64(0); i < bound; i++ {
		if ctx.Err() != nil {
			return signal{}, ErrCancelled
		}
		sig, err := e.execBlock(ctx, l.Body, env)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case ctrlAbort:
			return signal{}, nil
		case ctrlQuit:
			return sig, nil
		}
	}
	return signal{}, nil
}

// execUnboundedLoop repeats with no iteration ceiling. The only exits
// are an abort signal from the body or external cancellation.
func (e *Evaluator) execUnboundedLoop(ctx context.Context, l *ast.UnboundedLoop, env *Env) (signal, error) {
	for {
		if ctx.Err() != nil {
			return signal{}, ErrCancelled
		}
		sig, err := e.execBlock(ctx, l.Body, env)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case ctrlAbort:
			return signal{}, nil
		case ctrlQuit:
			return sig, nil
		}
	}
}

func (e *Evaluator) execAssign(ctx context.Context, a *ast.Assign, env *Env) error {
	v, err := e.evalExpr(ctx, a.Value, env)
	if err != nil {
		return err
	}
	if v < 0 {
		return errAt(a.Pos(), NegativeValue, "cannot assign negative value %d to %s", v, a.Target.Key())
	}
	// A top-level write to OUTPUT appends to the run's output sequence.
	// Inside a procedure OUTPUT is just the return cell.
	if a.Target.Kind == ast.CellOutput && e.callDepth == 0 {
		e.outputs = append(e.outputs, v)
	}
	env.Set(a.Target.Key(), v)
	return nil
}

func (e *Evaluator) evalExpr(ctx context.Context, x ast.Expr, env *Env) (int64, error) {
	switch x := x.(type) {
	case *ast.Literal:
		return x.Value, nil

	case *ast.CellRef:
		v, ok := env.Get(x.Key())
		if !ok {
			return 0, errAt(x.Pos(), UnboundCell, "unbound cell %s", x.Key())
		}
		return v, nil

	case *ast.BinaryOp:
		return e.evalBinary(ctx, x, env)

	case *ast.ProcCall:
		return e.call(ctx, x, env)
	}
	return 0, nil
}

func (e *Evaluator) evalBinary(ctx context.Context, x *ast.BinaryOp, env *Env) (int64, error) {
	l, err := e.evalExpr(ctx, x.Left, env)
	if err != nil {
		return 0, err
	}
	r, err := e.evalExpr(ctx, x.Right, env)
	if err != nil {
		return 0, err
	}
	switch x.Op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		// May go negative transiently; only assignment rejects it.
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpDiv:
		if r == 0 {
			return 0, errAt(x.OpPos, DivisionByZero, "division by zero")
		}
		return l / r, nil
	case ast.OpEq:
		return boolNat(l == r), nil
	case ast.OpLt:
		return boolNat(l < r), nil
	case ast.OpGt:
		return boolNat(l > r), nil
	}
	return 0, nil
}

// call invokes a procedure with call-by-value arguments in a fresh,
// isolated scope stack. The caller's cells are never visible to the
// callee; the OUTPUT cell of the callee's root scope is the result.
func (e *Evaluator) call(ctx context.Context, c *ast.ProcCall, env *Env) (int64, error) {
	proc, ok := e.procs.Lookup(c.Name)
	if !ok {
		return 0, errAt(c.CallPos, UndefinedProcedure, "undefined procedure %q", c.Name)
	}
	if len(c.Args) != len(proc.Params) {
		return 0, errAt(c.CallPos, ArityError,
			"procedure %q expects %d argument(s), got %d", c.Name, len(proc.Params), len(c.Args))
	}

	args := make([]int64, len(c.Args))
	for i, arg := range c.Args {
		v, err := e.evalExpr(ctx, arg, env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	callee := NewEnv()
	callee.Define("OUTPUT", 0)
	for i, param := range proc.Params {
		callee.Define(param, args[i])
	}

	e.callDepth++
	_, err := e.execBlock(ctx, proc.Body, callee)
	e.callDepth--
	if err != nil {
		return 0, err
	}

	result, _ := callee.Get("OUTPUT")
	return result, nil
}

func boolNat(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
