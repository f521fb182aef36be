package equivalence

import (
	"errors"
	"fmt"
)

// ErrAmbiguousTeleology signals that the objective matcher could not
// commit to a match or a non-match. Stage 1 propagates it instead of
// guessing, so a category error is never papered over.
var ErrAmbiguousTeleology = errors.New("ambiguous regulatory objective comparison")

// InvalidInputError reports a field that failed boundary validation
// before any stage ran. Values are never clamped into range.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
