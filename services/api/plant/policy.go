package plant

import (
	"fmt"
	"math"
	"strings"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/fuzzy"
)

// Strategy selects how the pump decision is made. One strategy is used per
// deployment.
type Strategy string

const (
	// StrategyThreshold compares raw readings against fixed limits.
	StrategyThreshold Strategy = "threshold"
	// StrategyInference uses the defuzzified tiempo_bomba output.
	StrategyInference Strategy = "inference"
)

// ParseStrategy accepts the strategy names case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyThreshold:
		return StrategyThreshold, nil
	case StrategyInference:
		return StrategyInference, nil
	default:
		return "", fmt.Errorf("unknown pump strategy %q", s)
	}
}

// Policy turns a reading and its inference trace into a pump decision.
type Policy interface {
	Strategy() Strategy
	Decide(r Reading, inf *fuzzy.Inference) Decision
}

// NewPolicy returns the policy for strategy bound to sys.
func NewPolicy(strategy Strategy, sys *fuzzy.System) (Policy, error) {
	switch strategy {
	case StrategyThreshold:
		return ThresholdPolicy{}, nil
	case StrategyInference:
		return NewInferencePolicy(sys), nil
	default:
		return nil, fmt.Errorf("unknown pump strategy %q", strategy)
	}
}

// Threshold limits and pump time bounds, in seconds.
const (
	dryThreshold      = 400
	hotThreshold      = 30
	dryAirThreshold   = 40
	brightThreshold   = 800
	minPumpSeconds    = 5
	maxPumpSeconds    = 60
	defaultPumpCutoff = 2
)

// ThresholdPolicy activates the pump when any raw reading crosses its limit.
// Each triggered limit adds time proportional to how far it was crossed.
type ThresholdPolicy struct{}

func (ThresholdPolicy) Strategy() Strategy { return StrategyThreshold }

func (ThresholdPolicy) Decide(r Reading, _ *fuzzy.Inference) Decision {
	reasons := []string{}
	total := 0.0

	if r.SoilMoisture < dryThreshold {
		reasons = append(reasons, "Suelo seco")
		total += (dryThreshold - r.SoilMoisture) / 2
	}
	if r.Temperature > hotThreshold {
		reasons = append(reasons, "Temperatura alta")
		total += (r.Temperature - hotThreshold) * 2
	}
	if r.Humidity < dryAirThreshold {
		reasons = append(reasons, "Humedad ambiente baja")
		total += dryAirThreshold - r.Humidity
	}
	if r.Light > brightThreshold {
		reasons = append(reasons, "Exceso de luz")
		total += (r.Light - brightThreshold) / 100
	}

	// Reported as 0 when idle. PumpTime stays nil for this strategy.
	seconds := 0
	activate := len(reasons) > 0
	if activate {
		seconds = int(math.RoundToEven(math.Max(minPumpSeconds, math.Min(maxPumpSeconds, total))))
	}
	return Decision{
		Strategy:   StrategyThreshold,
		Activate:   activate,
		Seconds:    &seconds,
		Reasons:    reasons,
		Conditions: r.conditions(),
	}
}

// InferencePolicy activates the pump when the defuzzified pump time exceeds
// Cutoff. Reasons are the labels of the pump rules that fired.
type InferencePolicy struct {
	Cutoff float64

	rules []fuzzy.Rule
}

// NewInferencePolicy binds the policy to the rule base of sys.
func NewInferencePolicy(sys *fuzzy.System) InferencePolicy {
	return InferencePolicy{Cutoff: defaultPumpCutoff, rules: sys.Rules()}
}

func (InferencePolicy) Strategy() Strategy { return StrategyInference }

func (p InferencePolicy) Decide(r Reading, inf *fuzzy.Inference) Decision {
	raw := inf.Outputs[VarPumpTime]
	activate := raw > p.Cutoff

	reasons := []string{}
	if activate {
		for i, rule := range p.rules {
			if i >= len(inf.Strengths) || inf.Strengths[i] <= 0 || rule.Reason == "" {
				continue
			}
			if assigns(rule, VarPumpTime) {
				reasons = append(reasons, rule.Reason)
			}
		}
	}

	t := round2(raw)
	return Decision{
		Strategy:   StrategyInference,
		Activate:   activate,
		PumpTime:   &t,
		Reasons:    reasons,
		Conditions: r.conditions(),
	}
}

func assigns(r fuzzy.Rule, variable string) bool {
	for _, t := range r.Then {
		if t.Variable == variable {
			return true
		}
	}
	return false
}
