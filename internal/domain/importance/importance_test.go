package importance

import (
	"math"
	"testing"
)

func TestScorePlayer(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		want     float64
		tier     string
		priority int
	}{
		{
			name: "maxed forward clamps to one",
			payload: map[string]any{
				"position":        "F",
				"starter_prob":    1.0,
				"market_value_m":  100,
				"minutes_rolling": 1.0,
				"jersey_no":       10,
				"key_flag":        true,
			},
			want:     1.0,
			tier:     "A",
			priority: 1,
		},
		{
			name: "loaded midfielder without starter signal",
			payload: map[string]any{
				"position":        "M",
				"market_value_m":  90,
				"minutes_rolling": 1.0,
				"jersey_no":       "10",
				"key_flag":        true,
			},
			want:     1.0,
			tier:     "A",
			priority: 1,
		},
		{
			name:     "bare unknown position",
			payload:  map[string]any{},
			want:     0.50,
			tier:     "C",
			priority: 3,
		},
		{
			name: "starter flag when no probability",
			payload: map[string]any{
				"position": "GK",
				"starter":  true,
			},
			want:     0.70,
			tier:     "B",
			priority: 2,
		},
		{
			name: "starter probability beats flag",
			payload: map[string]any{
				"position":     "M",
				"starter_prob": 0.5,
				"starter":      true,
			},
			want:     0.75,
			tier:     "B",
			priority: 2,
		},
		{
			name: "market tiers",
			payload: map[string]any{
				"position":       "D",
				"market_value_m": 45,
			},
			want:     0.67,
			tier:     "B",
			priority: 2,
		},
		{
			name: "squad number bonus",
			payload: map[string]any{
				"position":  "M",
				"jersey_no": 8,
			},
			want:     0.64,
			tier:     "B",
			priority: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score("player", tt.payload)
			if math.Abs(got.Score-tt.want) > 1e-9 {
				t.Fatalf("score = %v, want %v", got.Score, tt.want)
			}
			if got.Tier != tt.tier || got.Priority != tt.priority {
				t.Fatalf("tier/priority = %s/%d, want %s/%d", got.Tier, got.Priority, tt.tier, tt.priority)
			}
		})
	}
}

func TestScoreCoach(t *testing.T) {
	got := Score("coach", map[string]any{
		"stability":    1.0,
		"style_impact": 1.0,
		"reputation":   1.0,
	})
	if got.Score != 1.0 || got.Tier != "A" {
		t.Fatalf("got %+v", got)
	}

	base := Score("coach", nil)
	if math.Abs(base.Score-0.55) > 1e-9 {
		t.Fatalf("coach base = %v, want 0.55", base.Score)
	}
}

func TestScoreReferee(t *testing.T) {
	got := Score("referee", map[string]any{
		"red_rate":     0.5,
		"penalty_rate": 0.2,
		"fifa_badge":   true,
	})
	want := 0.45 + 0.10 + 0.03 + 0.10
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", got.Score, want)
	}
}

func TestScoreJersey(t *testing.T) {
	got := Score("jersey", map[string]any{"popularity": 0.5, "legacy": 0.25})
	want := 0.30 + 0.20 + 0.10
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", got.Score, want)
	}

	kit := Score("kit", map[string]any{"popularity": 0.5, "legacy": 0.25})
	if kit.Score != got.Score {
		t.Fatalf("kit alias diverged: %v vs %v", kit.Score, got.Score)
	}
}

func TestScoreUnknownType(t *testing.T) {
	got := Score("mascot", map[string]any{"popularity": 1.0})
	if got.Score != 0.30 {
		t.Fatalf("unknown type score = %v, want 0.30", got.Score)
	}
	if got.Tier != "D" || got.Priority != 4 {
		t.Fatalf("tier/priority = %s/%d", got.Tier, got.Priority)
	}
}

func TestTierLadder(t *testing.T) {
	tests := []struct {
		score    float64
		tier     string
		priority int
	}{
		{score: 0.85, tier: "A", priority: 1},
		{score: 0.8, tier: "A", priority: 1},
		{score: 0.79, tier: "B", priority: 2},
		{score: 0.6, tier: "B", priority: 2},
		{score: 0.45, tier: "C", priority: 3},
		{score: 0.25, tier: "D", priority: 4},
		{score: 0.1, tier: "D", priority: 5},
	}

	for _, tt := range tests {
		if got := tierFor(tt.score); got != tt.tier {
			t.Fatalf("tierFor(%v) = %s, want %s", tt.score, got, tt.tier)
		}
		if got := priorityFor(tt.score); got != tt.priority {
			t.Fatalf("priorityFor(%v) = %d, want %d", tt.score, got, tt.priority)
		}
	}
}
