package prediction

import (
	"math"
	"testing"
)

func ratingPtr(v float64) *float64 { return &v }

func TestAdjustLeansOnStrongEdge(t *testing.T) {
	got := Adjust(AdjustInput{
		MatchID:    "m1",
		HomeName:   "Arsenal",
		HomeRating: ratingPtr(0.9),
		AwayName:   "Spurs",
		AwayRating: ratingPtr(0.3),
		Payload:    map[string]any{},
	})

	if got.Advice != AdviceLeanHome {
		t.Fatalf("advice = %q, want lean_home (conf=%v, edge=%+v, upset=%v)",
			got.Advice, got.Confidence, got.Edge, got.UpsetIndex)
	}
	if got.Edge.Side != "home" {
		t.Fatalf("edge side = %q", got.Edge.Side)
	}
	if got.Home.Prob <= got.Away.Prob {
		t.Fatalf("stronger side must keep the larger prob: %v vs %v", got.Home.Prob, got.Away.Prob)
	}
}

func TestAdjustAbstainsOnEvenMatch(t *testing.T) {
	got := Adjust(AdjustInput{
		MatchID:  "m2",
		HomeName: "Milan",
		AwayName: "Inter",
		Payload:  map[string]any{},
	})

	if got.Advice != AdviceAbstain {
		t.Fatalf("even ratings should abstain, got %q", got.Advice)
	}
	if got.Edge.Side != "" {
		t.Fatalf("abstain must not pick a side: %q", got.Edge.Side)
	}
	if math.Abs(got.Home.Prob-got.Away.Prob) > 0.01 {
		t.Fatalf("even ratings should give near-even probs: %v vs %v", got.Home.Prob, got.Away.Prob)
	}
}

func TestAdjustAbstainsOnHighUpset(t *testing.T) {
	got := Adjust(AdjustInput{
		MatchID:    "m3",
		HomeName:   "Arsenal",
		HomeRating: ratingPtr(0.9),
		AwayName:   "Spurs",
		AwayRating: ratingPtr(0.3),
		Payload:    map[string]any{"odds_deviation": 0.9},
	})

	if got.UpsetIndex <= maxAdviceUpset {
		t.Fatalf("upset index = %v, expected above threshold", got.UpsetIndex)
	}
	if got.Advice != AdviceAbstain {
		t.Fatalf("high upset must abstain, got %q", got.Advice)
	}
}

func TestAdjustShrinksWithVolatileContext(t *testing.T) {
	calm := Adjust(AdjustInput{
		HomeName: "A", HomeRating: ratingPtr(0.9),
		AwayName: "B", AwayRating: ratingPtr(0.3),
		Payload: map[string]any{"key_absent": 0, "total_absent": 0},
	})
	volatile := Adjust(AdjustInput{
		HomeName: "A", HomeRating: ratingPtr(0.9),
		AwayName: "B", AwayRating: ratingPtr(0.3),
		Payload: map[string]any{
			"games_7d":     6,
			"avg_rest_day": 1,
			"phase":        "critical",
			"red_rate":     0.5,
			"penalty_rate": 0.3,
			"late_swap":    true,
			"scandal":      true,
			"transfer_hot": true,
			"hype_score":   1,
		},
	})

	if volatile.Causal.AdjustedError <= calm.Causal.AdjustedError {
		t.Fatalf("volatile context must raise adjusted error: %v vs %v",
			volatile.Causal.AdjustedError, calm.Causal.AdjustedError)
	}
	if volatile.Confidence >= calm.Confidence {
		t.Fatalf("volatile context must lower confidence: %v vs %v",
			volatile.Confidence, calm.Confidence)
	}
	if volatile.Home.Prob >= calm.Home.Prob {
		t.Fatalf("lower confidence must shrink the favorite: %v vs %v",
			volatile.Home.Prob, calm.Home.Prob)
	}
}

func TestAdjustDefaultBaseline(t *testing.T) {
	got := Adjust(AdjustInput{HomeName: "A", AwayName: "B"})
	if got.Causal.P0 != 0.021 {
		t.Fatalf("default p0 = %v, want 0.021", got.Causal.P0)
	}

	custom := Adjust(AdjustInput{HomeName: "A", AwayName: "B", P0: 0.05})
	if custom.Causal.P0 != 0.05 {
		t.Fatalf("custom p0 = %v, want 0.05", custom.Causal.P0)
	}
}

func TestAdjustProbsNormalized(t *testing.T) {
	got := Adjust(AdjustInput{
		HomeName: "A", HomeRating: ratingPtr(0.7),
		AwayName: "B", AwayRating: ratingPtr(0.4),
		Payload: map[string]any{"games_7d": 3, "avg_rest_day": 2},
	})

	sum := got.Home.Prob + got.Away.Prob + got.DrawProb
	if math.Abs(sum-1) > 0.001 {
		t.Fatalf("probs must normalize, sum = %v", sum)
	}
}
