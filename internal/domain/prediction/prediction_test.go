package prediction

import (
	"math"
	"testing"
)

func TestPredictV5Deterministic(t *testing.T) {
	in := MatchInput{MatchID: "m1", Home: "Arsenal", Away: "Spurs"}
	a := PredictV5(in)
	b := PredictV5(in)

	if a.Probs != b.Probs {
		t.Fatalf("same fixture must give identical probs: %+v vs %+v", a.Probs, b.Probs)
	}
	for k, v := range a.Scores {
		if b.Scores[k] != v {
			t.Fatalf("scoreline %s diverged: %v vs %v", k, v, b.Scores[k])
		}
	}
	if a.Version != "v5-demo" {
		t.Fatalf("version = %q", a.Version)
	}
}

func TestPredictV5ProbsPlausible(t *testing.T) {
	res := PredictV5(MatchInput{Home: "Milan", Away: "Inter"})
	sum := res.Probs.HomeWin + res.Probs.Draw + res.Probs.AwayWin
	if math.Abs(sum-1) > 0.01 {
		t.Fatalf("probs should roughly normalize, sum = %v", sum)
	}
	if res.Probs.HomeWin < 0.3 || res.Probs.HomeWin > 0.5 {
		t.Fatalf("home win prob out of model band: %v", res.Probs.HomeWin)
	}

	var scoreSum float64
	for _, v := range res.Scores {
		scoreSum += v
	}
	if math.Abs(scoreSum-1) > 0.01 {
		t.Fatalf("scoreline distribution should normalize, sum = %v", scoreSum)
	}
}

func TestPredictV5OrderMatters(t *testing.T) {
	ab := PredictV5(MatchInput{Home: "A", Away: "B"})
	ba := PredictV5(MatchInput{Home: "B", Away: "A"})
	if ab.Probs == ba.Probs {
		t.Fatalf("home/away swap should reseed the model")
	}
}

func TestPredictTriadDiffersFromV5(t *testing.T) {
	in := MatchInput{Home: "Arsenal", Away: "Spurs"}
	v5 := PredictV5(in)
	triad := PredictTriad(in)

	if v5.Probs == triad.Probs {
		t.Fatalf("models should be decorrelated on the same fixture")
	}
	if _, ok := triad.Scores["3-2"]; ok {
		t.Fatalf("triad grid must not contain 3-2")
	}
}

func TestCombine(t *testing.T) {
	r1 := ModelResult{
		Probs:   OutcomeProbs{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2},
		Scores:  map[string]float64{"1-0": 0.5, "2-0": 0.5},
		Version: "v5-demo",
	}
	r2 := ModelResult{
		Probs:   OutcomeProbs{HomeWin: 0.3, Draw: 0.3, AwayWin: 0.4},
		Scores:  map[string]float64{"1-0": 0.5, "0-1": 0.5},
		Version: "triad-demo",
	}

	res := Combine(r1, r2)
	if res.Probs.HomeWin != 0.42 {
		t.Fatalf("home win = %v, want 0.42", res.Probs.HomeWin)
	}
	if res.Probs.AwayWin != 0.28 {
		t.Fatalf("away win = %v, want 0.28", res.Probs.AwayWin)
	}
	if res.Scores["1-0"] != 0.5 {
		t.Fatalf("shared line = %v, want 0.5", res.Scores["1-0"])
	}
	if res.Scores["2-0"] != 0.3 || res.Scores["0-1"] != 0.2 {
		t.Fatalf("one-sided lines: %v", res.Scores)
	}
	if res.Version != "ensemble-0.1" {
		t.Fatalf("version = %q", res.Version)
	}
}

func TestTopScores(t *testing.T) {
	res := ModelResult{
		Probs: OutcomeProbs{HomeWin: 0.4, Draw: 0.3, AwayWin: 0.3},
		Scores: map[string]float64{
			"0-0": 0.1, "1-0": 0.3, "1-1": 0.2, "2-1": 0.25, "0-2": 0.15,
		},
		Version: "v5-demo",
	}

	top := TopScores(res)
	if len(top.Scores) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(top.Scores))
	}
	if top.Scores[0].Score != "1-0" || top.Scores[1].Score != "2-1" || top.Scores[2].Score != "1-1" {
		t.Fatalf("ranking wrong: %+v", top.Scores)
	}
}

func TestOutcomeProbsBest(t *testing.T) {
	tests := []struct {
		probs OutcomeProbs
		want  string
	}{
		{probs: OutcomeProbs{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2}, want: "H"},
		{probs: OutcomeProbs{HomeWin: 0.2, Draw: 0.3, AwayWin: 0.5}, want: "A"},
		{probs: OutcomeProbs{HomeWin: 0.2, Draw: 0.5, AwayWin: 0.3}, want: "D"},
	}
	for _, tt := range tests {
		if got := tt.probs.Best(); got != tt.want {
			t.Fatalf("Best(%+v) = %q, want %q", tt.probs, got, tt.want)
		}
	}
}

func TestIsValidModel(t *testing.T) {
	for _, name := range []string{ModelV5, ModelTriad, ModelEnsemble} {
		if !IsValidModel(name) {
			t.Fatalf("%s should be valid", name)
		}
	}
	if IsValidModel("gpt") {
		t.Fatalf("unknown model accepted")
	}
}
