package frontend

import (
	"errors"
	"fmt"

	"github.com/metaphox/rsfront/diag"
)

// ErrSyntax is matched (errors.Is) by every error returned from a failed parse.
var ErrSyntax = errors.New("syntax error")

// Error is the failure result of [Session.Parse]. It carries the diagnostics
// that failed the parse, in source order.
type Error struct {
	Diagnostics []diag.Diagnostic
}

func (e *Error) Error() string {
	switch n := len(e.Diagnostics); n {
	case 0:
		return ErrSyntax.Error()
	case 1:
		return e.Diagnostics[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", e.Diagnostics[0].Error(), n-1)
	}
}

// Is makes errors.Is(err, ErrSyntax) true.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// IsIncomplete reports whether err is a parse failure whose first error sits
// at end of input, i.e. more text could still make the source valid.
func IsIncomplete(err error) bool {
	var e *Error
	if !errors.As(err, &e) || len(e.Diagnostics) == 0 {
		return false
	}
	return e.Diagnostics[0].AtEOF
}
