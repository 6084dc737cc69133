package fuzzy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidShape      = errors.New("invalid membership shape")
	ErrInvalidDomain     = errors.New("invalid variable domain")
	ErrDuplicateSet      = errors.New("duplicate set name")
	ErrDuplicateVariable = errors.New("duplicate variable name")
	ErrRoleMismatch      = errors.New("variable used in the wrong role")
	ErrEmptyConsequent   = errors.New("rule has no consequent")
	ErrEmptyAntecedent   = errors.New("rule has no antecedent")
	ErrMissingInput      = errors.New("missing input")
)

// UnknownTermError reports a rule term naming a variable or set that the
// configuration does not define.
type UnknownTermError struct {
	Term Term
	// MissingSet is true when the variable exists but the set does not.
	MissingSet bool
}

func (e *UnknownTermError) Error() string {
	if e.MissingSet {
		return fmt.Sprintf("unknown set %q in variable %q", e.Term.Set, e.Term.Variable)
	}
	return fmt.Sprintf("unknown variable %q", e.Term.Variable)
}
