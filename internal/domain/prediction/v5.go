package prediction

import (
	"fmt"
	"math"
	"math/rand"
)

const v5Version = "v5-demo"

// v5Grid is the candidate scoreline set for the v5 heuristic distribution.
var v5Grid = [][2]int{
	{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 0}, {0, 2}, {2, 1},
	{1, 2}, {2, 2}, {3, 1}, {1, 3}, {3, 2}, {2, 3},
}

// PredictV5 is the baseline heuristic outcome model. Output is fully
// deterministic per (home, away) pairing.
func PredictV5(in MatchInput) ModelResult {
	rng := newRNG(in.Home, in.Away, 0)

	pHome := clamp01(0.4 + (rng.Float64()-0.5)*0.1)
	pAway := clamp01(0.3 + (rng.Float64()-0.5)*0.1)
	pDraw := clamp01(1 - pHome - pAway)

	probs := OutcomeProbs{
		HomeWin: round4(pHome),
		Draw:    round4(pDraw),
		AwayWin: round4(pAway),
	}

	return ModelResult{
		Probs:   probs,
		Scores:  scorelineDist(rng, probs, v5Grid, 1.4, 1.1, 0.1, 0.1),
		Version: v5Version,
	}
}

// scorelineDist builds a small normalized scoreline distribution biased
// toward the supplied outcome probabilities. Lines far from the expected
// goal baselines are softened.
func scorelineDist(rng *rand.Rand, probs OutcomeProbs, grid [][2]int, homeBase, awayBase, winBoost, drawBoost float64) map[string]float64 {
	baseHome := homeBase + rng.Float64()
	baseAway := awayBase + rng.Float64()

	dist := make(map[string]float64, len(grid))
	total := 0.0
	for _, line := range grid {
		h, a := line[0], line[1]
		var w float64
		switch {
		case h > a:
			w = probs.HomeWin * (1 + winBoost*float64(h))
		case h < a:
			w = probs.AwayWin * (1 + winBoost*float64(a))
		default:
			w = probs.Draw * (1 + drawBoost*float64(h))
		}
		w /= 1 + math.Abs(float64(h)-baseHome) + math.Abs(float64(a)-baseAway)
		dist[fmt.Sprintf("%d-%d", h, a)] = w
		total += w
	}

	if total == 0 {
		total = 1
	}
	for k, v := range dist {
		dist[k] = round4(v / total)
	}
	return dist
}
