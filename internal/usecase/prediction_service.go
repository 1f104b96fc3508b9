package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"

	"github.com/wibowo/causal-football/internal/domain/ingest"
	"github.com/wibowo/causal-football/internal/domain/prediction"
)

const (
	defaultBacktestWorkers = 8
	maxBacktestWorkers     = 64
)

// PredictOutput echoes the fixture identity alongside the model result.
type PredictOutput struct {
	MatchID string `json:"match_id"`
	Home    string `json:"home"`
	Away    string `json:"away"`
	prediction.ModelResult
}

// Top3Output echoes the fixture identity alongside the ranked scorelines.
type Top3Output struct {
	MatchID string `json:"match_id"`
	Home    string `json:"home"`
	Away    string `json:"away"`
	prediction.Top3
}

// BacktestResult is the win/draw/loss accuracy over a labeled match set.
type BacktestResult struct {
	Total int     `json:"total"`
	Hit   int     `json:"hit"`
	Acc   float64 `json:"acc"`
}

type PredictionService struct {
	predictionRepo prediction.Repository
	now            func() time.Time
}

func NewPredictionService(predictionRepo prediction.Repository) *PredictionService {
	return &PredictionService{predictionRepo: predictionRepo, now: time.Now}
}

// Predict runs the selected outcome model and stores the prediction row.
func (s *PredictionService) Predict(ctx context.Context, model string, in prediction.MatchInput) (*PredictOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	model, err := normalizeModel(model)
	if err != nil {
		return nil, err
	}
	if err := validateFixture(in); err != nil {
		return nil, err
	}

	res := prediction.Predict(model, in)
	if err := s.save(ctx, in, model, res); err != nil {
		return nil, err
	}

	return &PredictOutput{MatchID: in.MatchID, Home: in.Home, Away: in.Away, ModelResult: res}, nil
}

// Adjust runs the causal prediction: factor evaluation over the context
// payload folded into rating-based win probabilities. Stored under the
// "causal" model tag.
func (s *PredictionService) Adjust(ctx context.Context, in prediction.AdjustInput) (*prediction.Adjusted, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Adjust")
	defer span.End()

	if strings.TrimSpace(in.MatchID) == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.HomeName) == "" || strings.TrimSpace(in.AwayName) == "" {
		return nil, fmt.Errorf("%w: team names are required", ErrInvalidInput)
	}
	if err := validateRating(in.HomeRating); err != nil {
		return nil, err
	}
	if err := validateRating(in.AwayRating); err != nil {
		return nil, err
	}

	res := prediction.Adjust(in)

	payload, err := sonic.Marshal(in.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	result, err := sonic.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	rec := prediction.Record{
		MatchID:   in.MatchID,
		Model:     "causal",
		Payload:   payload,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	if err := s.predictionRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save prediction: %w", err)
	}

	return &res, nil
}

// TopScores returns the three most likely scorelines without persisting.
func (s *PredictionService) TopScores(ctx context.Context, model string, in prediction.MatchInput) (*Top3Output, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PredictionService.TopScores")
	defer span.End()

	model, err := normalizeModel(model)
	if err != nil {
		return nil, err
	}
	if err := validateFixture(in); err != nil {
		return nil, err
	}

	top := prediction.TopScores(prediction.Predict(model, in))
	return &Top3Output{MatchID: in.MatchID, Home: in.Home, Away: in.Away, Top3: top}, nil
}

// Backtest replays the model over labeled fixtures and reports W/D/L
// accuracy. The truth label comes from the "ft_result" feature (H, D or A);
// unlabeled fixtures count toward total but can never hit.
func (s *PredictionService) Backtest(ctx context.Context, model string, matches []prediction.MatchInput, maxWorkers int) (*BacktestResult, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PredictionService.Backtest")
	defer span.End()

	model, err := normalizeModel(model)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: matches are required", ErrInvalidInput)
	}

	workers := backtestWorkerCount(maxWorkers, len(matches))
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var hit atomic.Int32
	var wg sync.WaitGroup
	for _, m := range matches {
		m := m
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			res := prediction.Predict(model, m)
			truth := strings.ToUpper(ingest.PayloadString(m.Features, "ft_result"))
			if truth != "" && res.Probs.Best() == truth {
				hit.Add(1)
			}
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit backtest task: %w", err)
		}
	}
	wg.Wait()

	total := len(matches)
	return &BacktestResult{
		Total: total,
		Hit:   int(hit.Load()),
		Acc:   math.Round(float64(hit.Load())/float64(total)*1e4) / 1e4,
	}, nil
}

func (s *PredictionService) save(ctx context.Context, in prediction.MatchInput, model string, res prediction.ModelResult) error {
	payload, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	result, err := sonic.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	rec := prediction.Record{
		MatchID:   in.MatchID,
		Model:     model,
		Payload:   payload,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	if err := s.predictionRepo.Save(ctx, rec); err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	return nil
}

func normalizeModel(model string) (string, error) {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		model = prediction.ModelV5
	}
	if !prediction.IsValidModel(model) {
		return "", fmt.Errorf("%w: model must be v5|triad|ensemble", ErrInvalidInput)
	}
	return model, nil
}

func validateFixture(in prediction.MatchInput) error {
	if strings.TrimSpace(in.MatchID) == "" {
		return fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Home) == "" || strings.TrimSpace(in.Away) == "" {
		return fmt.Errorf("%w: home and away are required", ErrInvalidInput)
	}
	return nil
}

func validateRating(r *float64) error {
	if r == nil {
		return nil
	}
	if *r < 0 || *r > 1 {
		return fmt.Errorf("%w: rating must be in [0,1]", ErrInvalidInput)
	}
	return nil
}

func backtestWorkerCount(requested, tasks int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultBacktestWorkers
	}
	if workers > maxBacktestWorkers {
		workers = maxBacktestWorkers
	}
	if workers > tasks {
		workers = tasks
	}
	return workers
}
