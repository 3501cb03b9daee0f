// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"

	"nickandperla.net/floop/internal/token"
)

// ErrCancelled is the distinguished external-cancellation outcome. It
// is not a language-level fault: Run still returns whatever outputs had
// been produced.
var ErrCancelled = errors.New("evaluation cancelled")

// Code classifies runtime faults.
type Code int

const (
	UnboundCell Code = iota
	UndefinedProcedure
	ArityError
	NegativeValue
	DivisionByZero
)

func (c Code) String() string {
	switch c {
	case UnboundCell:
		return "unbound cell"
	case UndefinedProcedure:
		return "undefined procedure"
	case ArityError:
		return "arity error"
	case NegativeValue:
		return "negative value"
	case DivisionByZero:
		return "division by zero"
	}
	return "runtime error"
}

// RuntimeError is a fatal evaluation fault. It unwinds the entire run
// immediately; there is no recovery.
type RuntimeError struct {
	Pos  token.Pos
	Code Code
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func errAt(pos token.Pos, code Code, format string, args ...any) error {
	return &RuntimeError{Pos: pos, Code: code, Msg: fmt.Sprintf(format, args...)}
}
