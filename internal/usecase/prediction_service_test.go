package usecase

import (
	"errors"
	"testing"

	"github.com/wibowo/causal-football/internal/domain/prediction"
	"github.com/wibowo/causal-football/internal/infrastructure/repository/memory"
)

func fixtureInput() prediction.MatchInput {
	return prediction.MatchInput{MatchID: "m1", Home: "Arsenal", Away: "Spurs"}
}

func TestPredictionService_Predict_SavesRecord(t *testing.T) {
	repo := memory.NewPredictionRepository()
	svc := NewPredictionService(repo)

	out, err := svc.Predict(t.Context(), "v5", fixtureInput())
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if out.MatchID != "m1" || out.Version != "v5-demo" {
		t.Fatalf("unexpected output: %+v", out)
	}

	records, err := repo.ListByMatch(t.Context(), "m1", 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || records[0].Model != "v5" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(records[0].Result) == 0 {
		t.Fatalf("result json missing")
	}
}

func TestPredictionService_Predict_DefaultsToV5(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	out, err := svc.Predict(t.Context(), "", fixtureInput())
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if out.Version != "v5-demo" {
		t.Fatalf("version = %q, want v5-demo", out.Version)
	}
}

func TestPredictionService_Predict_RejectsUnknownModel(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	if _, err := svc.Predict(t.Context(), "gpt", fixtureInput()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Predict(t.Context(), "v5", prediction.MatchInput{MatchID: "m1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing teams, got %v", err)
	}
}

func TestPredictionService_Adjust(t *testing.T) {
	repo := memory.NewPredictionRepository()
	svc := NewPredictionService(repo)

	rating := 0.8
	out, err := svc.Adjust(t.Context(), prediction.AdjustInput{
		MatchID:    "m2",
		HomeName:   "Arsenal",
		HomeRating: &rating,
		AwayName:   "Spurs",
		Payload:    map[string]any{"games_7d": 2},
	})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if out.Home.Prob <= out.Away.Prob {
		t.Fatalf("higher rating must keep the edge: %+v", out)
	}

	records, err := repo.ListByMatch(t.Context(), "m2", 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || records[0].Model != "causal" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestPredictionService_Adjust_RatingRange(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	bad := 1.5
	_, err := svc.Adjust(t.Context(), prediction.AdjustInput{
		MatchID:    "m3",
		HomeName:   "A",
		AwayName:   "B",
		HomeRating: &bad,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPredictionService_TopScores(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	out, err := svc.TopScores(t.Context(), "ensemble", fixtureInput())
	if err != nil {
		t.Fatalf("top scores failed: %v", err)
	}
	if len(out.Scores) != 3 {
		t.Fatalf("expected 3 scorelines, got %d", len(out.Scores))
	}
	if out.Scores[0].Prob < out.Scores[1].Prob || out.Scores[1].Prob < out.Scores[2].Prob {
		t.Fatalf("scorelines not ranked: %+v", out.Scores)
	}
	if out.Version != "ensemble-0.1" {
		t.Fatalf("version = %q", out.Version)
	}
}

func TestPredictionService_Backtest(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	matches := make([]prediction.MatchInput, 0, 6)
	labels := []string{"H", "D", "A"}
	for i := 0; i < 6; i++ {
		matches = append(matches, prediction.MatchInput{
			MatchID:  "m" + string(rune('0'+i)),
			Home:     "Home" + string(rune('A'+i)),
			Away:     "Away" + string(rune('A'+i)),
			Features: map[string]any{"ft_result": labels[i%3]},
		})
	}

	res, err := svc.Backtest(t.Context(), "v5", matches, 4)
	if err != nil {
		t.Fatalf("backtest failed: %v", err)
	}
	if res.Total != 6 {
		t.Fatalf("total = %d, want 6", res.Total)
	}
	if res.Hit < 0 || res.Hit > res.Total {
		t.Fatalf("hit out of range: %+v", res)
	}

	// Same fixtures, same model: the replay is deterministic.
	again, err := svc.Backtest(t.Context(), "v5", matches, 2)
	if err != nil {
		t.Fatalf("backtest failed: %v", err)
	}
	if again.Hit != res.Hit || again.Acc != res.Acc {
		t.Fatalf("backtest not deterministic: %+v vs %+v", res, again)
	}
}

func TestPredictionService_Backtest_UnlabeledNeverHit(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	res, err := svc.Backtest(t.Context(), "triad", []prediction.MatchInput{
		{MatchID: "m1", Home: "A", Away: "B"},
		{MatchID: "m2", Home: "C", Away: "D"},
	}, 0)
	if err != nil {
		t.Fatalf("backtest failed: %v", err)
	}
	if res.Total != 2 || res.Hit != 0 || res.Acc != 0 {
		t.Fatalf("unlabeled matches must score zero: %+v", res)
	}
}

func TestPredictionService_Backtest_EmptyMatches(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository())

	if _, err := svc.Backtest(t.Context(), "v5", nil, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
