// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines floop token kinds and source positions.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	// Literals and names
	NUMBER
	IDENT

	// Keywords
	DEFINE
	PROCEDURE
	BLOCK
	BEGIN
	END
	LOOP
	AT
	MOST
	TIMES
	MULOOP // MU-LOOP
	IF
	THEN
	QUIT
	ABORT
	CELL
	OUTPUT
	YES
	NO

	// Operators
	ASSIGN // <=
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	EQ     // =
	LT     // <
	GT     // >

	// Punctuation
	COLON     // :
	SEMICOLON // ;
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	QUOTE     // "
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	ILLEGAL:   "ILLEGAL",
	NUMBER:    "NUMBER",
	IDENT:     "IDENT",
	DEFINE:    "DEFINE",
	PROCEDURE: "PROCEDURE",
	BLOCK:     "BLOCK",
	BEGIN:     "BEGIN",
	END:       "END",
	LOOP:      "LOOP",
	AT:        "AT",
	MOST:      "MOST",
	TIMES:     "TIMES",
	MULOOP:    "MU-LOOP",
	IF:        "IF",
	THEN:      "THEN",
	QUIT:      "QUIT",
	ABORT:     "ABORT",
	CELL:      "CELL",
	OUTPUT:    "OUTPUT",
	YES:       "YES",
	NO:        "NO",
	ASSIGN:    "<=",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	EQ:        "=",
	LT:        "<",
	GT:        ">",
	COLON:     ":",
	SEMICOLON: ";",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	QUOTE:     `"`,
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]Kind{
	"DEFINE":    DEFINE,
	"PROCEDURE": PROCEDURE,
	"BLOCK":     BLOCK,
	"BEGIN":     BEGIN,
	"END":       END,
	"LOOP":      LOOP,
	"AT":        AT,
	"MOST":      MOST,
	"TIMES":     TIMES,
	"MU-LOOP":   MULOOP,
	"IF":        IF,
	"THEN":      THEN,
	"QUIT":      QUIT,
	"ABORT":     ABORT,
	"CELL":      CELL,
	"OUTPUT":    OUTPUT,
	"YES":       YES,
	"NO":        NO,
}

// Lookup maps an identifier to its keyword kind, or IDENT if it is not
// a reserved word.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Pos is a source position, 1-based.
type Pos struct {
	Line   int
	Column int
}

// String formats the position as line:column.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token. Tokens are produced once by the
// scanner and read-only thereafter.
type Token struct {
	Kind   Kind
	Text   string
	Pos    Pos
	Offset int // byte offset of the token start in the source
}

// String formats the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case NUMBER, IDENT, ILLEGAL:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

// End returns the byte offset just past the token text.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}
