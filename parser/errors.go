package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// ErrUnexpectedEOF marks a statement that ended in the middle of a
// construct. It is distinct from a wrong-token error because it signals an
// unterminated statement rather than a malformed one; test for it with
// errors.Is.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// LexError reports the first byte of input that matched no lexical rule.
type LexError struct {
	Char   rune
	Offset int
	cause  error
}

func (e *LexError) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("unexpected character '%c' at position %d", e.Char, e.Offset)
	}
	if e.cause != nil {
		return fmt.Sprintf("lex error: %v", e.cause)
	}
	return "lex error"
}

func (e *LexError) Unwrap() error { return e.cause }

// newLexError extracts the failure offset from the underlying lexer error
// and records the offending character.
func newLexError(input string, err error) error {
	le := &LexError{Offset: -1, cause: err}
	var perr participle.Error
	if errors.As(err, &perr) {
		le.Offset = perr.Position().Offset
		if le.Offset >= 0 && le.Offset < len(input) {
			le.Char = rune(input[le.Offset])
		}
	}
	return le
}

// SyntaxError reports a malformed token sequence. Position is the byte
// offset of the offending token and Context is the nearby source text.
type SyntaxError struct {
	Message  string
	Position int
	Context  string
	err      error
}

func (e *SyntaxError) Error() string {
	msg := "syntax error: " + e.Message
	if e.Position >= 0 {
		msg += fmt.Sprintf(" at position %d", e.Position)
	}
	if e.Context != "" {
		msg += fmt.Sprintf(" near %q", e.Context)
	}
	return msg
}

func (e *SyntaxError) Unwrap() error { return e.err }
