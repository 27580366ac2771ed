package parser

import (
	"errors"
	"fmt"
)

// ErrParse indicates a malformed program.
var ErrParse = errors.New("parse error")

// Error is a parse error at a source position.
type Error struct {
	Line, Col int
	Msg       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at %d:%d: %s", ErrParse, e.Line, e.Col, e.Msg)
}

// Unwrap makes errors.Is(err, ErrParse) hold for parse errors.
func (e *Error) Unwrap() error {
	return ErrParse
}
