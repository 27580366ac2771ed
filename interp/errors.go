package interp

import (
	"errors"
	"fmt"

	"github.com/npillmayer/jss/ast"
)

var (
	// ErrFault is the category of runtime errors.
	ErrFault = errors.New("runtime fault")

	// ErrAbandoned signals that the consumer of an asynchronous walk stopped
	// advancing it.
	ErrAbandoned = errors.New("walk abandoned")
)

// RuntimeError is a fault raised while evaluating a node.
type RuntimeError struct {
	Node *ast.Node
	Err  error
}

func (e *RuntimeError) Error() string {
	if e.Node == nil {
		return fmt.Sprintf("%v: %v", ErrFault, e.Err)
	}
	return fmt.Sprintf("%v at %s in %s: %v", ErrFault, e.Node.Token.Pos(), e.Node.Kind, e.Err)
}

// Unwrap makes errors.Is work for ErrFault as well as for the cause.
func (e *RuntimeError) Unwrap() []error {
	return []error{ErrFault, e.Err}
}
