// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the floop lexer.
package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"nickandperla.net/floop/internal/token"
)

// LexError reports an unexpected character in the source.
type LexError struct {
	Pos  token.Pos
	Char rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Char)
}

// Scanner tokenizes floop source text. It is a pure function of the
// input: no state survives outside the token stream.
type Scanner struct {
	src    string
	offset int // byte index of ch in src
	line   int
	column int
	ch     rune
	width  int // width in bytes of ch
}

// New creates a Scanner over the given source text.
func New(src string) *Scanner {
	s := &Scanner{src: src, line: 1, column: 1}
	s.decode()
	return s
}

// Tokenize scans the entire source into a token slice terminated by an
// EOF sentinel.
func Tokenize(src string) ([]token.Token, error) {
	s := New(src)
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// decode loads the rune at s.offset without advancing.
func (s *Scanner) decode() {
	if s.offset >= len(s.src) {
		s.ch = 0
		s.width = 0
		return
	}
	s.ch, s.width = utf8.DecodeRuneInString(s.src[s.offset:])
}

func (s *Scanner) advance() {
	if s.ch == '\n' {
		s.line++
		s.column = 1
	} else if s.width > 0 {
		s.column++
	}
	s.offset += s.width
	s.decode()
}

func (s *Scanner) peek() rune {
	if s.offset+s.width >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.offset+s.width:])
	return r
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{Line: s.line, Column: s.column}
}

// skipSpace consumes whitespace and # line comments.
func (s *Scanner) skipSpace() {
	for {
		switch {
		case s.width == 0:
			return
		case unicode.IsSpace(s.ch):
			s.advance()
		case s.ch == '#':
			for s.width > 0 && s.ch != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Next returns the next token from the source.
func (s *Scanner) Next() (token.Token, error) {
	s.skipSpace()

	pos := s.pos()
	start := s.offset

	if s.width == 0 {
		return token.Token{Kind: token.EOF, Pos: pos, Offset: start}, nil
	}

	switch {
	case unicode.IsDigit(s.ch):
		for s.width > 0 && unicode.IsDigit(s.ch) {
			s.advance()
		}
		return token.Token{Kind: token.NUMBER, Text: s.src[start:s.offset], Pos: pos, Offset: start}, nil

	case isIdentStart(s.ch):
		return s.scanIdent(pos, start)
	}

	ch := s.ch
	s.advance()

	var kind token.Kind
	switch ch {
	case '<':
		if s.ch == '=' {
			s.advance()
			kind = token.ASSIGN
		} else {
			kind = token.LT
		}
	case '>':
		kind = token.GT
	case '=':
		kind = token.EQ
	case '+':
		kind = token.PLUS
	case '-':
		kind = token.MINUS
	case '*':
		kind = token.STAR
	case '/':
		kind = token.SLASH
	case ':':
		kind = token.COLON
	case ';':
		kind = token.SEMICOLON
	case ',':
		kind = token.COMMA
	case '(':
		kind = token.LPAREN
	case ')':
		kind = token.RPAREN
	case '[':
		kind = token.LBRACKET
	case ']':
		kind = token.RBRACKET
	case '"':
		kind = token.QUOTE
	default:
		return token.Token{}, &LexError{Pos: pos, Char: ch}
	}
	return token.Token{Kind: kind, Text: s.src[start:s.offset], Pos: pos, Offset: start}, nil
}

// scanIdent scans an identifier or keyword. A trailing ? is part of the
// name (predicate procedures). MU followed immediately by -LOOP forms
// the MU-LOOP keyword.
func (s *Scanner) scanIdent(pos token.Pos, start int) (token.Token, error) {
	for s.width > 0 && isIdentChar(s.ch) {
		s.advance()
	}
	if s.ch == '?' {
		s.advance()
	}
	text := s.src[start:s.offset]

	if text == "MU" && s.ch == '-' {
		s.advance()
		restStart := s.offset
		for s.width > 0 && isIdentChar(s.ch) {
			s.advance()
		}
		if s.src[restStart:s.offset] != "LOOP" {
			return token.Token{}, &LexError{Pos: pos, Char: '-'}
		}
		return token.Token{Kind: token.MULOOP, Text: "MU-LOOP", Pos: pos, Offset: start}, nil
	}

	return token.Token{Kind: token.Lookup(text), Text: text, Pos: pos, Offset: start}, nil
}
