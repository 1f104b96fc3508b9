package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/wibowo/causal-football/internal/domain/prediction"
	"github.com/wibowo/causal-football/internal/usecase"
)

type matchInputRequest struct {
	MatchID  string         `json:"match_id" validate:"omitempty,max=64"`
	Home     string         `json:"home" validate:"required,max=100"`
	Away     string         `json:"away" validate:"required,max=100"`
	Features map[string]any `json:"features"`
}

func (req matchInputRequest) toMatchInput() prediction.MatchInput {
	return prediction.MatchInput{
		MatchID:  req.MatchID,
		Home:     req.Home,
		Away:     req.Away,
		Features: req.Features,
	}
}

type backtestRequest struct {
	Model      string              `json:"model" validate:"omitempty,max=32"`
	Matches    []matchInputRequest `json:"matches" validate:"required,min=1,dive"`
	MaxWorkers int                 `json:"max_workers" validate:"omitempty,gte=0,lte=64"`
}

type causalAdjustRequest struct {
	MatchID    string         `json:"match_id" validate:"required,max=64"`
	Home       string         `json:"home" validate:"required,max=100"`
	HomeRating *float64       `json:"home_rating"`
	Away       string         `json:"away" validate:"required,max=100"`
	AwayRating *float64       `json:"away_rating"`
	Payload    map[string]any `json:"payload"`
	P0         float64        `json:"p0" validate:"omitempty,gte=0,lte=1"`
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Predict")
	defer span.End()

	req, err := decodeMatchInputRequest(h, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	model := r.URL.Query().Get("model")
	out, err := h.predictionService.Predict(ctx, model, req.toMatchInput())
	if err != nil {
		h.logger.WarnContext(ctx, "predict failed", "model", model, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) TopScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TopScores")
	defer span.End()

	req, err := decodeMatchInputRequest(h, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	model := r.URL.Query().Get("model")
	out, err := h.predictionService.TopScores(ctx, model, req.toMatchInput())
	if err != nil {
		h.logger.WarnContext(ctx, "top scores failed", "model", model, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) Backtest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Backtest")
	defer span.End()

	var req backtestRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches := make([]prediction.MatchInput, 0, len(req.Matches))
	for _, m := range req.Matches {
		matches = append(matches, m.toMatchInput())
	}

	out, err := h.predictionService.Backtest(ctx, req.Model, matches, req.MaxWorkers)
	if err != nil {
		h.logger.WarnContext(ctx, "backtest failed", "model", req.Model, "matches", len(matches), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) PredictCausal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictCausal")
	defer span.End()

	var req causalAdjustRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.predictionService.Adjust(ctx, prediction.AdjustInput{
		MatchID:    req.MatchID,
		HomeName:   req.Home,
		HomeRating: req.HomeRating,
		AwayName:   req.Away,
		AwayRating: req.AwayRating,
		Payload:    req.Payload,
		P0:         req.P0,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "causal predict failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func decodeMatchInputRequest(h *Handler, r *http.Request) (matchInputRequest, error) {
	var req matchInputRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(r.Context(), req); err != nil {
		return req, err
	}
	return req, nil
}
