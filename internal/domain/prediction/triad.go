package prediction

const triadVersion = "triad-demo"

// triadGrid is narrower than v5's; the triad model never proposes 3-2s.
var triadGrid = [][2]int{
	{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 0}, {0, 2},
	{2, 1}, {1, 2}, {2, 2}, {3, 1}, {1, 3},
}

// PredictTriad is the alternative outcome model with a slightly different
// bias than v5. Seed offset keeps it decorrelated from v5 on the same
// fixture.
func PredictTriad(in MatchInput) ModelResult {
	rng := newRNG(in.Home, in.Away, 7)

	pHome := clamp01(0.36 + (rng.Float64()-0.5)*0.08)
	pAway := clamp01(0.31 + (rng.Float64()-0.5)*0.08)
	pDraw := clamp01(1 - pHome - pAway)

	probs := OutcomeProbs{
		HomeWin: round4(pHome),
		Draw:    round4(pDraw),
		AwayWin: round4(pAway),
	}

	return ModelResult{
		Probs:   probs,
		Scores:  scorelineDist(rng, probs, triadGrid, 1.3, 1.0, 0.12, 0.07),
		Version: triadVersion,
	}
}
