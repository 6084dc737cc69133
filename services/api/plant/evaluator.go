package plant

import (
	"github.com/02loveslollipop/Shizuku-irrigation/services/api/fuzzy"
)

// Evaluator runs readings through the plant model and the configured pump
// policy. It holds only immutable state.
type Evaluator struct {
	sys    *fuzzy.System
	policy Policy
}

// NewEvaluator pairs sys with the policy for strategy.
func NewEvaluator(sys *fuzzy.System, strategy Strategy) (*Evaluator, error) {
	if err := checkSystem(sys); err != nil {
		return nil, err
	}
	policy, err := NewPolicy(strategy, sys)
	if err != nil {
		return nil, err
	}
	return &Evaluator{sys: sys, policy: policy}, nil
}

func (e *Evaluator) System() *fuzzy.System { return e.sys }

func (e *Evaluator) Strategy() Strategy { return e.policy.Strategy() }

// Infer returns the full inference trace for r.
func (e *Evaluator) Infer(r Reading) (*fuzzy.Inference, error) {
	return e.sys.Infer(r.inputs())
}

// Evaluate computes the plant state, the pump decision and the care
// recommendations for r.
func (e *Evaluator) Evaluate(r Reading) (Evaluation, error) {
	inf, err := e.Infer(r)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		PlantState:      round2(inf.Outputs[VarPlantState]),
		Decision:        e.policy.Decide(r, inf),
		Recommendations: Recommendations(r),
	}, nil
}

// Decide returns only the pump decision for r.
func (e *Evaluator) Decide(r Reading) (Decision, error) {
	inf, err := e.Infer(r)
	if err != nil {
		return Decision{}, err
	}
	return e.policy.Decide(r, inf), nil
}
