package factors

import (
	"math"
	"sort"

	"github.com/wibowo/causal-football/internal/domain/ingest"
)

// DefaultBaselineError is the historical base error rate applied when the
// caller does not supply its own p0.
const DefaultBaselineError = 0.021

const (
	aggregateMulFloor = 0.25
	aggregateMulCeil  = 4.0
)

// Driver is one of the top contributing factors in a snapshot, reported with
// its marginal effect on the adjusted error.
type Driver struct {
	Name             string  `json:"name"`
	Score            float64 `json:"score"`
	ImpactErrorDelta float64 `json:"impact_error_delta"`
	ImpactWeightMul  float64 `json:"impact_weight_mul"`
	Explain          string  `json:"explain"`
}

// Snapshot is the aggregated causal view of one match context: the baseline
// error rate, the folded multipliers, the adjusted error and the ranked
// drivers behind it.
type Snapshot struct {
	P0            float64  `json:"p0"`
	ErrorMul      float64  `json:"error_mul"`
	WeightMul     float64  `json:"weight_mul"`
	AdjustedError float64  `json:"adjusted_error"`
	Drivers       []Driver `json:"drivers"`
}

// BuildSnapshot folds factor results into one causal snapshot. If the
// canonical payload carries an odds deviation, a synthetic upset factor is
// appended and folded in like any evaluator output. The aggregate
// multipliers are clamped to [0.25, 4.0] so one extreme batch cannot blow
// the adjusted error past anything the baseline calibration supports;
// per-factor multipliers are reported unclamped.
func BuildSnapshot(results []Result, c ingest.Canonical, p0 float64) Snapshot {
	if p0 <= 0 {
		p0 = DefaultBaselineError
	}

	folded := make([]Result, 0, len(results)+1)
	folded = append(folded, results...)

	if c.OddsDeviation != nil {
		u := clamp01(*c.OddsDeviation)
		folded = append(folded, Result{
			Name:      NameUpsetIndex,
			Score:     u,
			Explain:   "odds deviation",
			ErrorMul:  1 + 0.08*u,
			WeightMul: 1 + 0.40*u,
		})
	}

	errorMul := 1.0
	weightMul := 1.0
	for _, r := range folded {
		errorMul *= r.ErrorMul
		weightMul *= r.WeightMul
	}
	errorMul = clampRange(errorMul, aggregateMulFloor, aggregateMulCeil)
	weightMul = clampRange(weightMul, aggregateMulFloor, aggregateMulCeil)

	ranked := make([]Result, len(folded))
	copy(ranked, folded)
	sort.SliceStable(ranked, func(i, j int) bool {
		return impactMagnitude(ranked[i]) > impactMagnitude(ranked[j])
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	drivers := make([]Driver, 0, len(ranked))
	for _, r := range ranked {
		drivers = append(drivers, Driver{
			Name:             r.Name,
			Score:            round(r.Score, 3),
			ImpactErrorDelta: round(p0*(r.ErrorMul-1), 5),
			ImpactWeightMul:  round(r.WeightMul, 4),
			Explain:          r.Explain,
		})
	}

	return Snapshot{
		P0:            round(p0, 5),
		ErrorMul:      round(errorMul, 4),
		WeightMul:     round(weightMul, 4),
		AdjustedError: round(p0*errorMul, 5),
		Drivers:       drivers,
	}
}

// Score runs the full chain for one payload: normalize, evaluate, aggregate.
func Score(payload map[string]any, p0 float64) (Evaluation, Snapshot) {
	c := ingest.Normalize(payload)
	eval := Evaluate(c)
	return eval, BuildSnapshot(eval.Items, c, p0)
}

func impactMagnitude(r Result) float64 {
	return math.Abs(r.ErrorMul-1) + 0.5*math.Abs(r.WeightMul-1)
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
