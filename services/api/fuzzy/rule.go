package fuzzy

import (
	"fmt"
	"strings"
)

// Degrees maps variable name to set name to membership degree.
type Degrees map[string]map[string]float64

// Expr is a rule antecedent: a binary tree of terms joined by AND (min) and
// OR (max).
type Expr interface {
	// Strength reduces the expression against already fuzzified inputs.
	Strength(d Degrees) (float64, error)
	// Terms calls fn for every leaf, left to right.
	Terms(fn func(Term))
	String() string

	compile(s *System) (node, error)
}

// Term references a set of a variable, e.g. suelo/seco.
type Term struct {
	Variable string `json:"variable"`
	Set      string `json:"set"`
}

// Is is shorthand for Term{variable, set}.
func Is(variable, set string) Term {
	return Term{Variable: variable, Set: set}
}

// ParseTerm parses "variable.set". The split happens at the first dot.
func ParseTerm(s string) (Term, error) {
	variable, set, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || variable == "" || set == "" {
		return Term{}, fmt.Errorf("malformed term %q, want variable.set", s)
	}
	return Term{Variable: variable, Set: set}, nil
}

func (t Term) Strength(d Degrees) (float64, error) {
	sets, ok := d[t.Variable]
	if !ok {
		return 0, &UnknownTermError{Term: t}
	}
	v, ok := sets[t.Set]
	if !ok {
		return 0, &UnknownTermError{Term: t, MissingSet: true}
	}
	return v, nil
}

func (t Term) Terms(fn func(Term)) { fn(t) }

func (t Term) String() string { return t.Variable + " es " + t.Set }

func (t Term) compile(s *System) (node, error) {
	v, ok := s.byName[t.Variable]
	if !ok {
		return node{}, &UnknownTermError{Term: t}
	}
	if v.Role != Antecedent {
		return node{}, fmt.Errorf("%w: %s used in antecedent", ErrRoleMismatch, t.Variable)
	}
	set, ok := v.SetIndex(t.Set)
	if !ok {
		return node{}, &UnknownTermError{Term: t, MissingSet: true}
	}
	return node{op: opTerm, variable: s.inputIndex[t.Variable], set: set}, nil
}

type opKind uint8

const (
	opTerm opKind = iota
	opAnd
	opOr
)

type binary struct {
	op          opKind
	left, right Expr
}

// And joins two or more expressions with fuzzy intersection (min). Extra
// operands nest to the left.
func And(left, right Expr, more ...Expr) Expr {
	return fold(opAnd, left, right, more)
}

// Or joins two or more expressions with fuzzy union (max).
func Or(left, right Expr, more ...Expr) Expr {
	return fold(opOr, left, right, more)
}

func fold(op opKind, left, right Expr, more []Expr) Expr {
	e := Expr(binary{op: op, left: left, right: right})
	for _, m := range more {
		e = binary{op: op, left: e, right: m}
	}
	return e
}

func (b binary) Strength(d Degrees) (float64, error) {
	l, err := b.left.Strength(d)
	if err != nil {
		return 0, err
	}
	r, err := b.right.Strength(d)
	if err != nil {
		return 0, err
	}
	return combine(b.op, l, r), nil
}

func (b binary) Terms(fn func(Term)) {
	b.left.Terms(fn)
	b.right.Terms(fn)
}

func (b binary) String() string {
	word := " y "
	if b.op == opOr {
		word = " o "
	}
	return "(" + b.left.String() + word + b.right.String() + ")"
}

func (b binary) compile(s *System) (node, error) {
	if b.left == nil || b.right == nil {
		return node{}, ErrEmptyAntecedent
	}
	l, err := b.left.compile(s)
	if err != nil {
		return node{}, err
	}
	r, err := b.right.compile(s)
	if err != nil {
		return node{}, err
	}
	return node{op: b.op, left: &l, right: &r}, nil
}

func combine(op opKind, l, r float64) float64 {
	if op == opAnd {
		return min(l, r)
	}
	return max(l, r)
}

// node is an antecedent with names resolved to indices.
type node struct {
	op          opKind
	variable    int
	set         int
	left, right *node
}

func (n *node) eval(in [][]float64) float64 {
	if n.op == opTerm {
		return in[n.variable][n.set]
	}
	return combine(n.op, n.left.eval(in), n.right.eval(in))
}

// Rule pairs an antecedent with one or more consequent terms. Reason is an
// optional human readable label reported when the rule contributes to a
// decision.
type Rule struct {
	If     Expr
	Then   []Term
	Reason string
}

// Strength is the rule's firing strength for the given degrees.
func (r Rule) Strength(d Degrees) (float64, error) {
	if r.If == nil {
		return 0, ErrEmptyAntecedent
	}
	return r.If.Strength(d)
}

func (r Rule) String() string {
	if r.If == nil {
		return "si <vacío>"
	}
	then := make([]string, 0, len(r.Then))
	for _, t := range r.Then {
		then = append(then, t.String())
	}
	return "si " + strings.TrimSuffix(strings.TrimPrefix(r.If.String(), "("), ")") +
		" entonces " + strings.Join(then, ", ")
}
