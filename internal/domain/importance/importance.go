// Package importance scores how much attention an entity deserves in push
// digests and review queues. Scores are heuristic and additive: a base per
// entity kind plus bonuses from whichever optional payload fields are
// present, clamped to [0,1] before tiering.
package importance

import (
	"strings"

	"github.com/wibowo/causal-football/internal/domain/ingest"
)

// Result carries the clamped score with its derived tier and push priority.
// Tier and priority read the same threshold ladder from opposite ends.
type Result struct {
	Score    float64 `json:"score"`
	Tier     string  `json:"tier"`
	Priority int     `json:"priority"`
}

// Score rates one entity payload. Unknown entity kinds get a low flat score
// so they sort behind everything that was recognized.
func Score(entityType string, payload map[string]any) Result {
	if payload == nil {
		payload = map[string]any{}
	}

	var score float64
	switch ingest.NormalizeEntityType(entityType) {
	case ingest.EntityPlayer:
		score = playerScore(payload)
	case ingest.EntityCoach:
		score = coachScore(payload)
	case ingest.EntityReferee:
		score = refereeScore(payload)
	case ingest.EntityJersey, "jersey_no", "kit":
		score = jerseyScore(payload)
	default:
		score = 0.30
	}

	score = clamp01(score)
	return Result{Score: score, Tier: tierFor(score), Priority: priorityFor(score)}
}

var positionBase = map[string]float64{
	"f":          0.70,
	"fw":         0.70,
	"forward":    0.70,
	"striker":    0.70,
	"m":          0.60,
	"mf":         0.60,
	"midfielder": 0.60,
	"d":          0.55,
	"df":         0.55,
	"defender":   0.55,
	"gk":         0.50,
	"goalkeeper": 0.50,
}

var jerseyNumberBonus = map[string]float64{
	"10": 0.06,
	"7":  0.06,
	"9":  0.06,
	"8":  0.04,
	"11": 0.04,
	"1":  0.03,
}

func playerScore(p map[string]any) float64 {
	position := strings.ToLower(strings.TrimSpace(ingest.PayloadString(p, "position")))
	score, ok := positionBase[position]
	if !ok {
		score = 0.50
	}

	// starter_prob (0..1) dominates when present; a bare starter flag is a
	// weaker signal.
	if prob, ok := payloadFloat(p, "starter_prob"); ok {
		score += clamp01(prob) * 0.30
	} else if payloadBool(p, "starter") {
		score += 0.20
	}

	// market_value_m is the market value in millions.
	if market, ok := payloadFloat(p, "market_value_m"); ok {
		switch {
		case market >= 80:
			score += 0.20
		case market >= 40:
			score += 0.12
		case market >= 20:
			score += 0.07
		case market >= 5:
			score += 0.03
		}
	}

	if minutes, ok := payloadFloat(p, "minutes_rolling"); ok {
		score += clamp01(minutes) * 0.15
	}

	// jersey_no arrives as a string from some crawlers and a number from
	// others; compare the rendered form.
	score += jerseyNumberBonus[strings.TrimSpace(ingest.PayloadString(p, "jersey_no"))]

	if payloadBool(p, "key_flag") {
		score += 0.10
	}

	return score
}

func coachScore(p map[string]any) float64 {
	score := 0.55
	if v, ok := payloadFloat(p, "stability"); ok {
		score += clamp01(v) * 0.25
	}
	if v, ok := payloadFloat(p, "style_impact"); ok {
		score += clamp01(v) * 0.25
	}
	if v, ok := payloadFloat(p, "reputation"); ok {
		score += clamp01(v) * 0.20
	}
	return score
}

func refereeScore(p map[string]any) float64 {
	score := 0.45
	if v, ok := payloadFloat(p, "red_rate"); ok {
		score += clamp01(v) * 0.20
	}
	if v, ok := payloadFloat(p, "penalty_rate"); ok {
		score += clamp01(v) * 0.15
	}
	if payloadBool(p, "fifa_badge") {
		score += 0.10
	}
	return score
}

func jerseyScore(p map[string]any) float64 {
	score := 0.30
	if v, ok := payloadFloat(p, "popularity"); ok {
		score += clamp01(v) * 0.40
	}
	if v, ok := payloadFloat(p, "legacy"); ok {
		score += clamp01(v) * 0.40
	}
	return score
}

func tierFor(score float64) string {
	switch {
	case score >= 0.8:
		return "A"
	case score >= 0.6:
		return "B"
	case score >= 0.4:
		return "C"
	default:
		return "D"
	}
}

func priorityFor(score float64) int {
	switch {
	case score >= 0.8:
		return 1
	case score >= 0.6:
		return 2
	case score >= 0.4:
		return 3
	case score >= 0.2:
		return 4
	default:
		return 5
	}
}
