// Package fuzzy implements a Mamdani style inference engine: triangular
// membership functions, linguistic variables, min/max rule composition,
// max aggregation and centroid defuzzification.
package fuzzy

import (
	"fmt"
	"math"
)

// Triangle holds the breakpoints of a triangular membership function.
// A == B or B == C yields a right or left ramp.
type Triangle struct {
	A float64 `json:"a" yaml:"a" toml:"a"`
	B float64 `json:"b" yaml:"b" toml:"b"`
	C float64 `json:"c" yaml:"c" toml:"c"`
}

// Validate checks A <= B <= C and that all breakpoints are finite.
func (t Triangle) Validate() error {
	for _, v := range []float64{t.A, t.B, t.C} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite breakpoint in %v", ErrInvalidShape, t)
		}
	}
	if t.A > t.B || t.B > t.C {
		return fmt.Errorf("%w: breakpoints %v must satisfy a <= b <= c", ErrInvalidShape, t)
	}
	return nil
}

// Membership returns the degree of x in [0,1]. It is total: NaN and values
// outside [A,C] map to 0.
func (t Triangle) Membership(x float64) float64 {
	switch {
	case math.IsNaN(x), x < t.A, x > t.C:
		return 0
	case x == t.B:
		return 1
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		return (t.C - x) / (t.C - t.B)
	}
}

func (t Triangle) String() string {
	return fmt.Sprintf("[%g %g %g]", t.A, t.B, t.C)
}

// Set is a named membership function.
type Set struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Shape Triangle `json:"shape" yaml:"shape" toml:"shape"`
}

// Membership evaluates the set's membership function at x.
func (s Set) Membership(x float64) float64 {
	return s.Shape.Membership(x)
}
