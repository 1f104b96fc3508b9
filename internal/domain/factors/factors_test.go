package factors

import (
	"math"
	"testing"

	"github.com/wibowo/causal-football/internal/domain/ingest"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScheduleDensity(t *testing.T) {
	tests := []struct {
		name string
		c    ingest.Canonical
		want float64
	}{
		{name: "quiet week", c: ingest.Canonical{Games7d: 1, AvgRestDay: 5}, want: 0.2},
		{name: "congested", c: ingest.Canonical{Games7d: 3, AvgRestDay: 2}, want: 0.9},
		{name: "saturated clamps", c: ingest.Canonical{Games7d: 6, AvgRestDay: 0}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scheduleDensity(tt.c)
			if !almostEqual(r.Score, tt.want) {
				t.Fatalf("score = %v, want %v", r.Score, tt.want)
			}
		})
	}
}

func TestSeasonPhase(t *testing.T) {
	tests := []struct {
		phase string
		want  float64
	}{
		{phase: "early", want: 0.35},
		{phase: "mid", want: 0.5},
		{phase: "late", want: 0.65},
		{phase: "critical", want: 0.85},
		{phase: "preseason", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.phase, func(t *testing.T) {
			r := seasonPhase(ingest.Canonical{Phase: tt.phase})
			if r.Score != tt.want {
				t.Fatalf("score = %v, want %v", r.Score, tt.want)
			}
		})
	}
}

func TestInjuries(t *testing.T) {
	zero := injuries(ingest.Canonical{})
	// sigmoid(0) is 0.5, so even a clean sheet carries the midpoint weight.
	if !almostEqual(zero.Score, 0.35) {
		t.Fatalf("zero absences score = %v, want 0.35", zero.Score)
	}

	heavy := injuries(ingest.Canonical{KeyAbsent: 2, TotalAbsent: 4})
	want := 0.7*(1/(1+math.Exp(-8))) + 0.3*0.8
	if !almostEqual(heavy.Score, want) {
		t.Fatalf("score = %v, want %v", heavy.Score, want)
	}

	saturated := injuries(ingest.Canonical{KeyAbsent: 10, TotalAbsent: 50})
	if saturated.Score > 1 {
		t.Fatalf("score must clamp to 1, got %v", saturated.Score)
	}
}

func TestRefereeVolatility(t *testing.T) {
	r := refereeVolatility(ingest.Canonical{RedRate: 0.3, PenaltyRate: 0.1, LateSwap: true})
	if !almostEqual(r.Score, 0.38) {
		t.Fatalf("score = %v, want 0.38", r.Score)
	}

	r = refereeVolatility(ingest.Canonical{RedRate: 2, PenaltyRate: 2, LateSwap: true})
	if r.Score != 1 {
		t.Fatalf("score must clamp to 1, got %v", r.Score)
	}
}

func TestMediaPressure(t *testing.T) {
	r := mediaPressure(ingest.Canonical{Scandal: true, TransferHot: true, HypeScore: 1})
	if r.Score != 1 {
		t.Fatalf("score = %v, want 1", r.Score)
	}

	r = mediaPressure(ingest.Canonical{HypeScore: 0.5})
	if !almostEqual(r.Score, 0.15) {
		t.Fatalf("score = %v, want 0.15", r.Score)
	}
}

func TestRivalryAndSocial(t *testing.T) {
	r := rivalry(ingest.Canonical{DerbyStrength: 0.5, RecentTension: 0.5})
	if !almostEqual(r.Score, 0.5) {
		t.Fatalf("rivalry score = %v, want 0.5", r.Score)
	}

	s := social(ingest.Canonical{SocialLevel: 2})
	if !almostEqual(s.Score, 2.0/3.0) {
		t.Fatalf("social score = %v", s.Score)
	}
	if social(ingest.Canonical{SocialLevel: 5}).Score != 1 {
		t.Fatalf("social must clamp at 1")
	}
}

func TestImpactTable(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		errorMul  float64
		weightMul float64
	}{
		{name: NameInjuries, score: 0.5, errorMul: 0.9, weightMul: 1.25},
		{name: NameSocial, score: 1, errorMul: 0.9, weightMul: 1},
		{name: NameRefereeVolatility, score: 0.4, errorMul: 1.04, weightMul: 1},
		{name: NameRivalry, score: 0.5, errorMul: 1, weightMul: 2},
		{name: NameScheduleDensity, score: 1, errorMul: 1.08, weightMul: 1.5},
		{name: NameSeasonPhase, score: 0.85, errorMul: 1, weightMul: 1.14},
		{name: NameMediaPressure, score: 0.5, errorMul: 1.03, weightMul: 1.15},
		{name: "made_up_factor", score: 0.9, errorMul: 1, weightMul: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, wm := Impact(tt.name, tt.score)
			if !almostEqual(em, tt.errorMul) || !almostEqual(wm, tt.weightMul) {
				t.Fatalf("Impact(%s, %v) = (%v, %v), want (%v, %v)",
					tt.name, tt.score, em, wm, tt.errorMul, tt.weightMul)
			}
		})
	}
}

func TestEvaluateFoldsAllFactors(t *testing.T) {
	eval := Evaluate(ingest.Canonical{
		Games7d:     6,
		AvgRestDay:  2,
		Phase:       "critical",
		KeyAbsent:   2,
		TotalAbsent: 4,
		RedRate:     0.3,
		PenaltyRate: 0.1,
		LateSwap:    true,
		SocialLevel: 3,
	})

	if len(eval.Items) != 7 {
		t.Fatalf("expected 7 factors, got %d", len(eval.Items))
	}

	em := 1.0
	wm := 1.0
	for _, r := range eval.Items {
		if r.Score < 0 || r.Score > 1 {
			t.Fatalf("%s score %v out of range", r.Name, r.Score)
		}
		em *= r.ErrorMul
		wm *= r.WeightMul
	}

	if !almostEqual(eval.Aggregate.ErrorMul, math.Round(em*1e4)/1e4) {
		t.Fatalf("aggregate error mul %v, recomputed %v", eval.Aggregate.ErrorMul, em)
	}
	if !almostEqual(eval.Aggregate.WeightMul, math.Round(wm*1e4)/1e4) {
		t.Fatalf("aggregate weight mul %v, recomputed %v", eval.Aggregate.WeightMul, wm)
	}
}
