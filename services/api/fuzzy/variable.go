package fuzzy

import (
	"fmt"
	"math"
)

// Role tells whether a variable feeds rule antecedents or receives consequents.
type Role int

const (
	Antecedent Role = iota
	Consequent
)

func (r Role) String() string {
	switch r {
	case Antecedent:
		return "antecedent"
	case Consequent:
		return "consequent"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// DefaultStep is the sampling step used when a variable leaves Step at zero.
const DefaultStep = 1.0

// Variable is a linguistic variable: a bounded universe of discourse and the
// ordered fuzzy sets partitioning it.
type Variable struct {
	Name  string
	Role  Role
	Lower float64
	Upper float64
	// Step is the distance between universe samples. Consequents are
	// aggregated and defuzzified on this grid.
	Step float64
	Sets []Set
}

// Clamp restricts x to the variable's domain.
func (v *Variable) Clamp(x float64) float64 {
	if math.IsNaN(x) {
		return v.Lower
	}
	return math.Max(v.Lower, math.Min(v.Upper, x))
}

// Fuzzify clamps x into the domain and returns the degree of every set.
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	x = v.Clamp(x)
	out := make(map[string]float64, len(v.Sets))
	for _, s := range v.Sets {
		out[s.Name] = s.Membership(x)
	}
	return out
}

func (v *Variable) fuzzifyInto(x float64, dst []float64) {
	x = v.Clamp(x)
	for i, s := range v.Sets {
		dst[i] = s.Membership(x)
	}
}

func (v *Variable) step() float64 {
	if v.Step <= 0 {
		return DefaultStep
	}
	return v.Step
}

// Universe returns the sample points of the domain from Lower to Upper
// inclusive, spaced by Step. The last point is snapped to Upper.
func (v *Variable) Universe() []float64 {
	const eps = 1e-9
	step := v.step()
	n := int(math.Floor((v.Upper-v.Lower)/step+eps)) + 1
	if n < 1 {
		return []float64{v.Lower}
	}
	xs := make([]float64, n, n+1)
	for i := range xs {
		xs[i] = v.Lower + float64(i)*step
	}
	switch last := xs[n-1]; {
	case math.Abs(v.Upper-last) <= eps*math.Max(1, math.Abs(v.Upper)):
		xs[n-1] = v.Upper
	case last < v.Upper:
		xs = append(xs, v.Upper)
	}
	return xs
}

// SetIndex returns the position of the named set.
func (v *Variable) SetIndex(name string) (int, bool) {
	for i, s := range v.Sets {
		if s.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (v *Variable) validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: variable without name", ErrInvalidDomain)
	}
	if math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || math.IsInf(v.Lower, 0) || math.IsInf(v.Upper, 0) || v.Lower >= v.Upper {
		return fmt.Errorf("%w: %s has domain [%g, %g]", ErrInvalidDomain, v.Name, v.Lower, v.Upper)
	}
	if v.Step < 0 || v.Step > v.Upper-v.Lower {
		return fmt.Errorf("%w: %s has step %g", ErrInvalidDomain, v.Name, v.Step)
	}
	if v.Role != Antecedent && v.Role != Consequent {
		return fmt.Errorf("%w: %s has %s", ErrRoleMismatch, v.Name, v.Role)
	}
	if len(v.Sets) == 0 {
		return fmt.Errorf("%w: %s has no sets", ErrInvalidDomain, v.Name)
	}
	seen := make(map[string]struct{}, len(v.Sets))
	for _, s := range v.Sets {
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateSet, v.Name, s.Name)
		}
		seen[s.Name] = struct{}{}
		if err := s.Shape.Validate(); err != nil {
			return fmt.Errorf("%s.%s: %w", v.Name, s.Name, err)
		}
	}
	return nil
}

func (v *Variable) clone() *Variable {
	c := *v
	c.Sets = append([]Set(nil), v.Sets...)
	return &c
}
