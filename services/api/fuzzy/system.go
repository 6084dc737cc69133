package fuzzy

import (
	"fmt"
	"math"
)

// System is an immutable, validated configuration of variables and rules.
// It carries no per-evaluation state and is safe for concurrent use.
type System struct {
	inputs  []*Variable
	outputs []*Variable
	byName  map[string]*Variable

	inputIndex  map[string]int
	outputIndex map[string]int

	rules    []Rule
	compiled []compiledRule
	grids    []grid
}

type compiledRule struct {
	antecedent node
	// targets holds (output, set) index pairs.
	targets [][2]int
}

// grid is a consequent variable sampled once at construction.
type grid struct {
	xs     []float64
	curves [][]float64
}

// NewSystem validates the variables and rules and resolves every rule term.
// Any reference to an undefined variable or set fails with *UnknownTermError.
func NewSystem(vars []*Variable, rules []Rule) (*System, error) {
	s := &System{
		byName:      make(map[string]*Variable, len(vars)),
		inputIndex:  make(map[string]int),
		outputIndex: make(map[string]int),
	}
	for _, v := range vars {
		if v == nil {
			continue
		}
		if err := v.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byName[v.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVariable, v.Name)
		}
		c := v.clone()
		s.byName[c.Name] = c
		switch c.Role {
		case Antecedent:
			s.inputIndex[c.Name] = len(s.inputs)
			s.inputs = append(s.inputs, c)
		case Consequent:
			s.outputIndex[c.Name] = len(s.outputs)
			s.outputs = append(s.outputs, c)
			s.grids = append(s.grids, sample(c))
		}
	}

	for i, r := range rules {
		cr, err := s.compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		s.compiled = append(s.compiled, cr)
		s.rules = append(s.rules, Rule{If: r.If, Then: append([]Term(nil), r.Then...), Reason: r.Reason})
	}
	return s, nil
}

func (s *System) compileRule(r Rule) (compiledRule, error) {
	if r.If == nil {
		return compiledRule{}, ErrEmptyAntecedent
	}
	if len(r.Then) == 0 {
		return compiledRule{}, ErrEmptyConsequent
	}
	ant, err := r.If.compile(s)
	if err != nil {
		return compiledRule{}, err
	}
	cr := compiledRule{antecedent: ant}
	for _, t := range r.Then {
		v, ok := s.byName[t.Variable]
		if !ok {
			return compiledRule{}, &UnknownTermError{Term: t}
		}
		if v.Role != Consequent {
			return compiledRule{}, fmt.Errorf("%w: %s used in consequent", ErrRoleMismatch, t.Variable)
		}
		set, ok := v.SetIndex(t.Set)
		if !ok {
			return compiledRule{}, &UnknownTermError{Term: t, MissingSet: true}
		}
		cr.targets = append(cr.targets, [2]int{s.outputIndex[t.Variable], set})
	}
	return cr, nil
}

func sample(v *Variable) grid {
	g := grid{xs: v.Universe()}
	g.curves = make([][]float64, len(v.Sets))
	for i, set := range v.Sets {
		curve := make([]float64, len(g.xs))
		for j, x := range g.xs {
			curve[j] = set.Membership(x)
		}
		g.curves[i] = curve
	}
	return g
}

// Inputs returns copies of the antecedent variables in declaration order.
func (s *System) Inputs() []*Variable { return cloneAll(s.inputs) }

// Outputs returns copies of the consequent variables in declaration order.
func (s *System) Outputs() []*Variable { return cloneAll(s.outputs) }

// Rules returns a copy of the rule base in declaration order.
func (s *System) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = Rule{If: r.If, Then: append([]Term(nil), r.Then...), Reason: r.Reason}
	}
	return out
}

// Variable looks up a variable by name and returns a copy of it.
func (s *System) Variable(name string) (*Variable, bool) {
	v, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

func cloneAll(vars []*Variable) []*Variable {
	out := make([]*Variable, len(vars))
	for i, v := range vars {
		out[i] = v.clone()
	}
	return out
}

// Curves returns the sampled membership curves of a variable, keyed by set
// name, along with the sample points. The slices are fresh copies.
func (s *System) Curves(name string) ([]float64, map[string][]float64, bool) {
	v, ok := s.byName[name]
	if !ok {
		return nil, nil, false
	}
	var g grid
	if i, isOut := s.outputIndex[name]; isOut {
		g = s.grids[i]
	} else {
		g = sample(v)
	}
	xs := append([]float64(nil), g.xs...)
	sets := make(map[string][]float64, len(v.Sets))
	for i, set := range v.Sets {
		sets[set.Name] = append([]float64(nil), g.curves[i]...)
	}
	return xs, sets, true
}

// Curve is a fuzzy set sampled over a consequent's universe.
type Curve struct {
	X  []float64 `json:"x"`
	Mu []float64 `json:"mu"`
}

// Inference is the full trace of one evaluation.
type Inference struct {
	// Degrees holds the fuzzified inputs.
	Degrees Degrees
	// Strengths holds each rule's firing strength, in rule order.
	Strengths []float64
	// Aggregated holds the union of clipped consequents per output.
	Aggregated map[string]Curve
	// Outputs holds the defuzzified value per output.
	Outputs map[string]float64
}

// Infer fuzzifies the crisp inputs, fires every rule, aggregates by output
// variable and defuzzifies with the centroid method. Every antecedent
// variable must be present in inputs.
func (s *System) Infer(inputs map[string]float64) (*Inference, error) {
	in := make([][]float64, len(s.inputs))
	deg := make(Degrees, len(s.inputs))
	for i, v := range s.inputs {
		x, ok := inputs[v.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, v.Name)
		}
		in[i] = make([]float64, len(v.Sets))
		v.fuzzifyInto(x, in[i])
		sets := make(map[string]float64, len(v.Sets))
		for j, set := range v.Sets {
			sets[set.Name] = in[i][j]
		}
		deg[v.Name] = sets
	}

	agg := make([][]float64, len(s.outputs))
	for i := range s.outputs {
		agg[i] = make([]float64, len(s.grids[i].xs))
	}

	strengths := make([]float64, len(s.compiled))
	for r, cr := range s.compiled {
		w := cr.antecedent.eval(in)
		strengths[r] = w
		if w <= 0 {
			continue
		}
		for _, t := range cr.targets {
			clipInto(agg[t[0]], s.grids[t[0]].curves[t[1]], w)
		}
	}

	res := &Inference{
		Degrees:    deg,
		Strengths:  strengths,
		Aggregated: make(map[string]Curve, len(s.outputs)),
		Outputs:    make(map[string]float64, len(s.outputs)),
	}
	for i, v := range s.outputs {
		c := Curve{X: append([]float64(nil), s.grids[i].xs...), Mu: agg[i]}
		res.Aggregated[v.Name] = c
		res.Outputs[v.Name] = Centroid(c)
	}
	return res, nil
}

// Evaluate is Infer reduced to the crisp outputs.
func (s *System) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	res, err := s.Infer(inputs)
	if err != nil {
		return nil, err
	}
	return res.Outputs, nil
}

// clipInto merges min(w, curve) into dst with max.
func clipInto(dst, curve []float64, w float64) {
	for i, mu := range curve {
		if c := math.Min(w, mu); c > dst[i] {
			dst[i] = c
		}
	}
}

// Centroid returns the center of gravity of a sampled curve. A curve with
// zero total membership carries no information and defuzzifies to the
// midpoint of its domain.
func Centroid(c Curve) float64 {
	if len(c.X) == 0 {
		return 0
	}
	// Samples past the shorter slice are ignored.
	n := min(len(c.X), len(c.Mu))
	var num, den float64
	for i := 0; i < n; i++ {
		num += c.X[i] * c.Mu[i]
		den += c.Mu[i]
	}
	if den == 0 {
		return (c.X[0] + c.X[len(c.X)-1]) / 2
	}
	return num / den
}
