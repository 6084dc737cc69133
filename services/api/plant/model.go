// Package plant holds the greenhouse plant model: the linguistic variables
// for the four sensors, the plant state and pump time consequents, the rule
// base and the irrigation decision policies built on top of them.
package plant

import (
	"fmt"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/fuzzy"
)

// Variable names used by the built-in model and required from custom ones.
const (
	VarTemperature = "temperatura"
	VarHumidity    = "humedad"
	VarSoil        = "suelo"
	VarLight       = "luz"
	VarPlantState  = "estado_planta"
	VarPumpTime    = "tiempo_bomba"
)

func tri(name string, a, b, c float64) fuzzy.Set {
	return fuzzy.Set{Name: name, Shape: fuzzy.Triangle{A: a, B: b, C: c}}
}

// Variables returns fresh copies of the built-in linguistic variables.
func Variables() []*fuzzy.Variable {
	return []*fuzzy.Variable{
		{
			Name: VarTemperature, Role: fuzzy.Antecedent, Lower: 15, Upper: 40,
			Sets: []fuzzy.Set{tri("fría", 15, 15, 25), tri("óptima", 20, 25, 30), tri("caliente", 25, 35, 40)},
		},
		{
			Name: VarHumidity, Role: fuzzy.Antecedent, Lower: 0, Upper: 100,
			Sets: []fuzzy.Set{tri("baja", 0, 0, 50), tri("óptima", 40, 60, 80), tri("alta", 70, 100, 100)},
		},
		{
			Name: VarSoil, Role: fuzzy.Antecedent, Lower: 0, Upper: 1023,
			Sets: []fuzzy.Set{tri("seco", 0, 0, 500), tri("húmedo", 400, 600, 800), tri("empapado", 700, 1023, 1023)},
		},
		{
			Name: VarLight, Role: fuzzy.Antecedent, Lower: 0, Upper: 1023,
			Sets: []fuzzy.Set{tri("baja", 0, 0, 500), tri("óptima", 400, 600, 800), tri("alta", 700, 1023, 1023)},
		},
		{
			Name: VarPlantState, Role: fuzzy.Consequent, Lower: 0, Upper: 100, Step: 1,
			Sets: []fuzzy.Set{tri("malo", 0, 0, 40), tri("regular", 30, 50, 70), tri("bueno", 60, 100, 100)},
		},
		{
			Name: VarPumpTime, Role: fuzzy.Consequent, Lower: 0, Upper: 20, Step: 1,
			Sets: []fuzzy.Set{tri("corto", 0, 0, 4), tri("medio", 3, 8, 13), tri("largo", 10, 20, 20)},
		},
	}
}

// Rules returns the built-in rule base.
//
// Off-optimal conditions push the plant state towards malo, simultaneous
// optimal conditions towards bueno and any single optimal condition towards
// regular. Every soil reading fires at least one tiempo_bomba rule.
func Rules() []fuzzy.Rule {
	is := fuzzy.Is
	state := func(set string) fuzzy.Term { return is(VarPlantState, set) }
	pump := func(set string) fuzzy.Term { return is(VarPumpTime, set) }

	return []fuzzy.Rule{
		{
			If:   fuzzy.Or(is(VarTemperature, "fría"), is(VarTemperature, "caliente"), is(VarHumidity, "baja")),
			Then: []fuzzy.Term{state("malo")},
		},
		{
			If:     is(VarSoil, "seco"),
			Then:   []fuzzy.Term{state("malo"), pump("largo")},
			Reason: "Suelo seco",
		},
		{
			If: fuzzy.And(is(VarTemperature, "óptima"), is(VarHumidity, "óptima"),
				is(VarSoil, "húmedo"), is(VarLight, "óptima")),
			Then: []fuzzy.Term{state("bueno")},
		},
		{
			If:   fuzzy.And(is(VarTemperature, "óptima"), is(VarSoil, "húmedo")),
			Then: []fuzzy.Term{state("bueno")},
		},
		{If: is(VarTemperature, "óptima"), Then: []fuzzy.Term{state("regular")}},
		{If: is(VarHumidity, "óptima"), Then: []fuzzy.Term{state("regular")}},
		{If: is(VarSoil, "húmedo"), Then: []fuzzy.Term{state("regular")}},
		{If: is(VarLight, "óptima"), Then: []fuzzy.Term{state("regular")}},
		{
			If:   fuzzy.Or(is(VarHumidity, "alta"), is(VarLight, "baja"), is(VarLight, "alta")),
			Then: []fuzzy.Term{state("regular")},
		},
		{
			If: fuzzy.And(is(VarSoil, "húmedo"),
				fuzzy.Or(is(VarTemperature, "caliente"), is(VarHumidity, "baja"), is(VarLight, "alta"))),
			Then:   []fuzzy.Term{pump("medio")},
			Reason: "Demanda hídrica alta",
		},
		{
			If:   fuzzy.And(is(VarSoil, "húmedo"), fuzzy.Or(is(VarHumidity, "óptima"), is(VarHumidity, "alta"))),
			Then: []fuzzy.Term{pump("corto")},
		},
		{
			If:   is(VarSoil, "empapado"),
			Then: []fuzzy.Term{state("regular"), pump("corto")},
		},
	}
}

// NewSystem builds the built-in model.
func NewSystem() (*fuzzy.System, error) {
	return fuzzy.NewSystem(Variables(), Rules())
}

// LoadSystem builds the model from path, or the built-in model when path is
// empty, and checks that it defines every variable the policies read.
func LoadSystem(path string) (*fuzzy.System, error) {
	var (
		sys *fuzzy.System
		err error
	)
	if path == "" {
		sys, err = NewSystem()
	} else {
		sys, err = fuzzy.LoadModelFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := checkSystem(sys); err != nil {
		return nil, err
	}
	return sys, nil
}

func checkSystem(sys *fuzzy.System) error {
	want := []struct {
		name string
		role fuzzy.Role
	}{
		{VarTemperature, fuzzy.Antecedent},
		{VarHumidity, fuzzy.Antecedent},
		{VarSoil, fuzzy.Antecedent},
		{VarLight, fuzzy.Antecedent},
		{VarPlantState, fuzzy.Consequent},
		{VarPumpTime, fuzzy.Consequent},
	}
	for _, w := range want {
		v, ok := sys.Variable(w.name)
		if !ok {
			return fmt.Errorf("model is missing variable %q", w.name)
		}
		if v.Role != w.role {
			return fmt.Errorf("%w: %s must be %s", fuzzy.ErrRoleMismatch, w.name, w.role)
		}
	}
	if n := len(sys.Inputs()); n != 4 {
		return fmt.Errorf("model declares %d antecedents, want 4", n)
	}
	return nil
}
