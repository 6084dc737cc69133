package fuzzy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ModelFile is the on-disk description of a System.
type ModelFile struct {
	Variables []VariableSpec `yaml:"variables" toml:"variables"`
	Rules     []RuleSpec     `yaml:"rules" toml:"rules"`
}

type VariableSpec struct {
	Name   string    `yaml:"name" toml:"name"`
	Role   string    `yaml:"role" toml:"role"`
	Domain []float64 `yaml:"domain" toml:"domain"`
	Step   float64   `yaml:"step,omitempty" toml:"step,omitempty"`
	Sets   []SetSpec `yaml:"sets" toml:"sets"`
}

type SetSpec struct {
	Name   string    `yaml:"name" toml:"name"`
	Points []float64 `yaml:"points" toml:"points"`
}

type RuleSpec struct {
	If     ExprSpec `yaml:"if" toml:"if"`
	Then   []string `yaml:"then" toml:"then"`
	Reason string   `yaml:"reason,omitempty" toml:"reason,omitempty"`
}

// ExprSpec holds exactly one of Is ("variable.set"), All (AND) or Any (OR).
type ExprSpec struct {
	Is  string     `yaml:"is,omitempty" toml:"is,omitempty"`
	All []ExprSpec `yaml:"all,omitempty" toml:"all,omitempty"`
	Any []ExprSpec `yaml:"any,omitempty" toml:"any,omitempty"`
}

// DecodeYAML reads a model in YAML form. Unknown keys are rejected.
func DecodeYAML(r io.Reader) (*ModelFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m ModelFile
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return &m, nil
}

// DecodeTOML reads a model in TOML form. Unknown keys are rejected.
func DecodeTOML(r io.Reader) (*ModelFile, error) {
	var m ModelFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return &m, nil
}

// LoadModelFile decodes path according to its extension (.yaml, .yml or
// .toml) and builds the System.
func LoadModelFile(path string) (*System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	defer f.Close()

	var m *ModelFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		m, err = DecodeYAML(f)
	case ".toml":
		m, err = DecodeTOML(f)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return m.Build()
}

// Build converts the file into variables and rules and validates them.
func (m *ModelFile) Build() (*System, error) {
	vars := make([]*Variable, 0, len(m.Variables))
	for _, vs := range m.Variables {
		v, err := vs.variable()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	rules := make([]Rule, 0, len(m.Rules))
	for i, rs := range m.Rules {
		r, err := rs.rule()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return NewSystem(vars, rules)
}

func (vs VariableSpec) variable() (*Variable, error) {
	v := &Variable{Name: vs.Name, Step: vs.Step}
	switch strings.ToLower(vs.Role) {
	case "antecedent", "input":
		v.Role = Antecedent
	case "consequent", "output":
		v.Role = Consequent
	default:
		return nil, fmt.Errorf("%w: %s has role %q", ErrRoleMismatch, vs.Name, vs.Role)
	}
	if len(vs.Domain) != 2 {
		return nil, fmt.Errorf("%w: %s domain needs two bounds", ErrInvalidDomain, vs.Name)
	}
	v.Lower, v.Upper = vs.Domain[0], vs.Domain[1]
	for _, ss := range vs.Sets {
		if len(ss.Points) != 3 {
			return nil, fmt.Errorf("%w: %s.%s needs three points", ErrInvalidShape, vs.Name, ss.Name)
		}
		v.Sets = append(v.Sets, Set{
			Name:  ss.Name,
			Shape: Triangle{A: ss.Points[0], B: ss.Points[1], C: ss.Points[2]},
		})
	}
	return v, nil
}

func (rs RuleSpec) rule() (Rule, error) {
	expr, err := rs.If.expr()
	if err != nil {
		return Rule{}, err
	}
	r := Rule{If: expr, Reason: rs.Reason}
	for _, s := range rs.Then {
		t, err := ParseTerm(s)
		if err != nil {
			return Rule{}, err
		}
		r.Then = append(r.Then, t)
	}
	return r, nil
}

func (es ExprSpec) expr() (Expr, error) {
	set := 0
	if es.Is != "" {
		set++
	}
	if len(es.All) > 0 {
		set++
	}
	if len(es.Any) > 0 {
		set++
	}
	if set != 1 {
		return nil, errors.New("expression needs exactly one of is, all, any")
	}
	if es.Is != "" {
		return ParseTerm(es.Is)
	}
	op, operands := opAnd, es.All
	if len(es.Any) > 0 {
		op, operands = opOr, es.Any
	}
	exprs := make([]Expr, 0, len(operands))
	for _, o := range operands {
		e, err := o.expr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return fold(op, exprs[0], exprs[1], exprs[2:]), nil
}
