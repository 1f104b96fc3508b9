package factors

import (
	"fmt"
	"math"

	"github.com/wibowo/causal-football/internal/domain/ingest"
)

const (
	NameScheduleDensity   = "schedule_density"
	NameSeasonPhase       = "season_phase"
	NameInjuries          = "injuries"
	NameRefereeVolatility = "referee_volatility"
	NameMediaPressure     = "media_pressure"
	NameRivalry           = "rivalry"
	NameSocial            = "social"
	NameUpsetIndex        = "upset_index"
)

// Result is the output of one factor evaluator, extended with the impact
// multipliers the mapper assigns to its score.
type Result struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Explain   string  `json:"explain"`
	ErrorMul  float64 `json:"error_mul"`
	WeightMul float64 `json:"weight_mul"`
}

// Evaluation bundles all factor results with their multiplicative aggregate.
type Evaluation struct {
	Items     []Result  `json:"items"`
	Aggregate Aggregate `json:"aggregate"`
}

type Aggregate struct {
	ErrorMul  float64 `json:"error_mul"`
	WeightMul float64 `json:"weight_mul"`
}

type evaluator func(ingest.Canonical) Result

// evaluators run in a fixed order so result slices are stable for callers
// and tests; the aggregate itself is order-independent.
var evaluators = []evaluator{
	scheduleDensity,
	seasonPhase,
	injuries,
	refereeVolatility,
	mediaPressure,
	rivalry,
	social,
}

// Evaluate scores every factor against the canonical context and folds the
// per-factor impact multipliers into a running product. Evaluators never
// fail: canonical defaults already absorbed missing or malformed input.
func Evaluate(c ingest.Canonical) Evaluation {
	items := make([]Result, 0, len(evaluators))
	errorMul := 1.0
	weightMul := 1.0

	for _, eval := range evaluators {
		r := eval(c)
		r.ErrorMul, r.WeightMul = Impact(r.Name, r.Score)
		items = append(items, r)
		errorMul *= r.ErrorMul
		weightMul *= r.WeightMul
	}

	return Evaluation{
		Items: items,
		Aggregate: Aggregate{
			ErrorMul:  round(errorMul, 4),
			WeightMul: round(weightMul, 4),
		},
	}
}

// Schedule density: two matches inside three days pushes the score up.
func scheduleDensity(c ingest.Canonical) Result {
	raw := c.Games7d/3.0 + math.Max(0, 4.0-c.AvgRestDay)/4.0
	return Result{
		Name:    NameScheduleDensity,
		Score:   clamp01(raw * 0.6),
		Explain: fmt.Sprintf("games_7d=%v, rest=%vd", trimFloat(c.Games7d), trimFloat(c.AvgRestDay)),
	}
}

var phaseScores = map[string]float64{
	ingest.PhaseEarly:    0.35,
	ingest.PhaseMid:      0.5,
	ingest.PhaseLate:     0.65,
	ingest.PhaseCritical: 0.85,
}

func seasonPhase(c ingest.Canonical) Result {
	score, ok := phaseScores[c.Phase]
	if !ok {
		score = 0.5
	}
	return Result{
		Name:    NameSeasonPhase,
		Score:   score,
		Explain: fmt.Sprintf("phase=%s", c.Phase),
	}
}

func injuries(c ingest.Canonical) Result {
	score := clamp01(0.7*sigmoid(float64(c.KeyAbsent)) + 0.3*clamp01(float64(c.TotalAbsent)/5.0))
	return Result{
		Name:    NameInjuries,
		Score:   score,
		Explain: fmt.Sprintf("key_out=%d, total_out=%d", c.KeyAbsent, c.TotalAbsent),
	}
}

func refereeVolatility(c ingest.Canonical) Result {
	score := 0.5*c.RedRate + 0.3*c.PenaltyRate
	if c.LateSwap {
		score += 0.2
	}
	return Result{
		Name:    NameRefereeVolatility,
		Score:   clamp01(score),
		Explain: fmt.Sprintf("red=%v, pen=%v, swap=%t", trimFloat(c.RedRate), trimFloat(c.PenaltyRate), c.LateSwap),
	}
}

func mediaPressure(c ingest.Canonical) Result {
	score := 0.3 * c.HypeScore
	if c.Scandal {
		score += 0.4
	}
	if c.TransferHot {
		score += 0.3
	}
	return Result{
		Name:    NameMediaPressure,
		Score:   clamp01(score),
		Explain: fmt.Sprintf("scandal=%t, transfer=%t, hype=%v", c.Scandal, c.TransferHot, trimFloat(c.HypeScore)),
	}
}

func rivalry(c ingest.Canonical) Result {
	return Result{
		Name:    NameRivalry,
		Score:   clamp01(0.6*c.DerbyStrength + 0.4*c.RecentTension),
		Explain: fmt.Sprintf("hist=%v, recent=%v", trimFloat(c.DerbyStrength), trimFloat(c.RecentTension)),
	}
}

func social(c ingest.Canonical) Result {
	return Result{
		Name:    NameSocial,
		Score:   clamp01(float64(c.SocialLevel) / 3.0),
		Explain: fmt.Sprintf("S=%d", c.SocialLevel),
	}
}

// sigmoid squashes a count onto (0,1) with a steep slope so a single key
// absence already moves the score meaningfully.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-4.0*x))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func round(x float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(x*factor) / factor
}

func trimFloat(x float64) string {
	return fmt.Sprintf("%g", x)
}
