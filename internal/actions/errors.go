package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/statebind/internal/ir"
)

// DefinitionError reports every validation problem found in one definition.
type DefinitionError struct {
	Def    string
	Errors []ir.ValidationError
}

func (e *DefinitionError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	name := e.Def
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("invalid definition %s: %s", name, strings.Join(msgs, "; "))
}

// ArgError reports a call to an action creator whose arguments do not
// match the declared signature.
type ArgError struct {
	Ref     ir.ActionRef
	Arg     string // empty for arity errors
	Message string
}

func (e *ArgError) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("%s: arg %q: %s", e.Ref, e.Arg, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Ref, e.Message)
}

// IsArgError returns true if err is or wraps an *ArgError.
func IsArgError(err error) bool {
	var ae *ArgError
	return errors.As(err, &ae)
}
