package fuzzy

import (
	"errors"
	"math"
	"testing"
)

func TestTriangleMembershipBreakpoints(t *testing.T) {
	cases := []struct {
		name          string
		tri           Triangle
		atA, atB, atC float64
	}{
		{"regular", Triangle{20, 25, 30}, 0, 1, 0},
		{"right ramp", Triangle{15, 15, 25}, 1, 1, 0},
		{"left ramp", Triangle{700, 1023, 1023}, 0, 1, 1},
		{"spike", Triangle{5, 5, 5}, 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tri.Membership(tc.tri.A); got != tc.atA {
				t.Fatalf("membership(a) = %v, want %v", got, tc.atA)
			}
			if got := tc.tri.Membership(tc.tri.B); got != tc.atB {
				t.Fatalf("membership(b) = %v, want %v", got, tc.atB)
			}
			if got := tc.tri.Membership(tc.tri.C); got != tc.atC {
				t.Fatalf("membership(c) = %v, want %v", got, tc.atC)
			}
		})
	}
}

func TestTriangleMembershipIsTotal(t *testing.T) {
	tri := Triangle{40, 60, 80}
	for _, x := range []float64{math.Inf(-1), -1e300, 0, 39.999, 80.001, 1e300, math.Inf(1), math.NaN()} {
		if got := tri.Membership(x); got != 0 {
			t.Fatalf("membership(%v) = %v, want 0", x, got)
		}
	}
	if got := tri.Membership(50); got != 0.5 {
		t.Fatalf("membership(50) = %v, want 0.5", got)
	}
	if got := tri.Membership(70); got != 0.5 {
		t.Fatalf("membership(70) = %v, want 0.5", got)
	}
}

func TestTriangleMembershipMonotonicSegments(t *testing.T) {
	tri := Triangle{400, 600, 800}
	prev := tri.Membership(tri.A)
	for x := tri.A; x <= tri.B; x += 0.5 {
		got := tri.Membership(x)
		if got < prev {
			t.Fatalf("rising segment decreased at %v: %v < %v", x, got, prev)
		}
		prev = got
	}
	prev = tri.Membership(tri.B)
	for x := tri.B; x <= tri.C; x += 0.5 {
		got := tri.Membership(x)
		if got > prev {
			t.Fatalf("falling segment increased at %v: %v > %v", x, got, prev)
		}
		prev = got
	}
}

func TestTriangleValidate(t *testing.T) {
	if err := (Triangle{0, 0, 40}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tri := range []Triangle{{30, 20, 40}, {0, 50, 40}, {math.NaN(), 1, 2}, {0, 1, math.Inf(1)}} {
		if err := tri.Validate(); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("Validate(%v) = %v, want ErrInvalidShape", tri, err)
		}
	}
}
