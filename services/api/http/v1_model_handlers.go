package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/fuzzy"
)

type setView struct {
	Name   string     `json:"name"`
	Points [3]float64 `json:"points"`
}

type variableView struct {
	Name   string     `json:"name"`
	Role   string     `json:"role"`
	Domain [2]float64 `json:"domain"`
	Step   float64    `json:"step"`
	Sets   []setView  `json:"sets"`
}

func viewVariable(v *fuzzy.Variable) variableView {
	sets := make([]setView, len(v.Sets))
	for i, set := range v.Sets {
		sets[i] = setView{Name: set.Name, Points: [3]float64{set.Shape.A, set.Shape.B, set.Shape.C}}
	}
	return variableView{
		Name:   v.Name,
		Role:   v.Role.String(),
		Domain: [2]float64{v.Lower, v.Upper},
		Step:   v.Step,
		Sets:   sets,
	}
}

func variableNames(vars []*fuzzy.Variable) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

// handleV1ModelVariables describes every linguistic variable of the model
// GET /api/v1/model/variables
func (s *Server) handleV1ModelVariables(c *gin.Context) {
	sys := s.sensors.Evaluator().System()
	vars := make([]variableView, 0, len(sys.Inputs())+len(sys.Outputs()))
	for _, v := range sys.Inputs() {
		vars = append(vars, viewVariable(v))
	}
	for _, v := range sys.Outputs() {
		vars = append(vars, viewVariable(v))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": vars,
		"meta": gin.H{
			"inputs":  len(sys.Inputs()),
			"outputs": len(sys.Outputs()),
		},
	})
}

type ruleView struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Reason string `json:"reason,omitempty"`
}

// handleV1ModelRules lists the rule base in evaluation order
// GET /api/v1/model/rules
func (s *Server) handleV1ModelRules(c *gin.Context) {
	rules := s.sensors.Evaluator().System().Rules()
	out := make([]ruleView, len(rules))
	for i, r := range rules {
		out[i] = ruleView{Index: i + 1, Text: r.String(), Reason: r.Reason}
	}
	c.JSON(http.StatusOK, gin.H{
		"data": out,
		"meta": gin.H{"count": len(out)},
	})
}

// handleV1ModelInfer runs a reading through the model and returns the full
// trace without storing anything
// POST /api/v1/model/infer
func (s *Server) handleV1ModelInfer(c *gin.Context) {
	reading, ok := bindReading(c)
	if !ok {
		return
	}

	eval := s.sensors.Evaluator()
	inf, err := eval.Infer(reading)
	if respondServiceError(c, err) {
		return
	}

	rules := eval.System().Rules()
	fired := make([]gin.H, 0, len(rules))
	for i, r := range rules {
		fired = append(fired, gin.H{
			"index":    i + 1,
			"text":     r.String(),
			"strength": inf.Strengths[i],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"degrees":    inf.Degrees,
			"rules":      fired,
			"aggregated": inf.Aggregated,
			"outputs":    inf.Outputs,
		},
		"meta": gin.H{
			"strategy": eval.Strategy(),
		},
	})
}
