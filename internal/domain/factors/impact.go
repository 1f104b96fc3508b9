package factors

// impactRule turns one factor score into multiplicative adjustments on the
// baseline error rate and the factor weight.
type impactRule struct {
	errorSlope  float64
	errorBase   float64
	weightSlope float64
	weightBase  float64
}

func (r impactRule) apply(score float64) (errorMul, weightMul float64) {
	return r.errorBase + r.errorSlope*score, r.weightBase + r.weightSlope*score
}

// impactRules is fixed domain configuration, one rule per factor name.
// Slopes are calibrated against historical backtests and are not derived at
// runtime. Factors absent from the table are neutral.
var impactRules = map[string]impactRule{
	NameInjuries:          {errorBase: 1, errorSlope: -0.2, weightBase: 1, weightSlope: 0.5},
	NameSocial:            {errorBase: 1, errorSlope: -0.1, weightBase: 1},
	NameRefereeVolatility: {errorBase: 1, errorSlope: 0.1, weightBase: 1},
	NameRivalry:           {errorBase: 1, weightBase: 1, weightSlope: 2},
	NameScheduleDensity:   {errorBase: 1, errorSlope: 0.08, weightBase: 1, weightSlope: 0.5},
	NameSeasonPhase:       {errorBase: 1, weightBase: 0.8, weightSlope: 0.4},
	NameMediaPressure:     {errorBase: 1, errorSlope: 0.06, weightBase: 1, weightSlope: 0.3},
}

// Impact maps a factor score onto its (errorMul, weightMul) pair. Unknown
// factor names are identity so new evaluators can land before their
// calibration does.
func Impact(name string, score float64) (errorMul, weightMul float64) {
	rule, ok := impactRules[name]
	if !ok {
		return 1, 1
	}
	return rule.apply(score)
}
