package prediction

const (
	ensembleVersion = "ensemble-0.1"

	primaryWeight   = 0.6
	secondaryWeight = 0.4
)

// Combine blends two model results into the weighted ensemble. Scoreline
// keys present in only one distribution contribute with the other side at
// zero, so the merged distribution may sum slightly under one.
func Combine(primary, secondary ModelResult) ModelResult {
	blend := func(a, b float64) float64 {
		return round4(primaryWeight*a + secondaryWeight*b)
	}

	merged := make(map[string]float64, len(primary.Scores)+len(secondary.Scores))
	for k, v := range primary.Scores {
		merged[k] = blend(v, secondary.Scores[k])
	}
	for k, v := range secondary.Scores {
		if _, ok := merged[k]; !ok {
			merged[k] = blend(0, v)
		}
	}

	return ModelResult{
		Probs: OutcomeProbs{
			HomeWin: blend(primary.Probs.HomeWin, secondary.Probs.HomeWin),
			Draw:    blend(primary.Probs.Draw, secondary.Probs.Draw),
			AwayWin: blend(primary.Probs.AwayWin, secondary.Probs.AwayWin),
		},
		Scores:  merged,
		Version: ensembleVersion,
	}
}

// Predict dispatches to the named model. Callers must validate the name
// with IsValidModel first; unknown names fall back to v5.
func Predict(model string, in MatchInput) ModelResult {
	switch model {
	case ModelTriad:
		return PredictTriad(in)
	case ModelEnsemble:
		return Combine(PredictV5(in), PredictTriad(in))
	default:
		return PredictV5(in)
	}
}
