package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/wibowo/causal-football/internal/usecase"
)

type backfillRequest struct {
	League  string   `json:"league" validate:"omitempty,max=64"`
	Seasons []string `json:"seasons" validate:"required,min=1,dive,required,max=16"`
}

type telegramTestDTO struct {
	Sent bool `json:"sent"`
}

type dbCheckDTO struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *Handler) TestTelegram(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TestTelegram")
	defer span.End()

	if h.notifier == nil {
		writeError(ctx, w, fmt.Errorf("%w: telegram notifier is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	sent, err := h.notifier.Send(ctx, "causal-football test message")
	if err != nil {
		h.logger.WarnContext(ctx, "telegram test failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, telegramTestDTO{Sent: sent})
}

func (h *Handler) CheckDB(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckDB")
	defer span.End()

	if h.dbChecker == nil {
		writeError(ctx, w, fmt.Errorf("%w: database is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	version, err := h.dbChecker.Version(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "db check failed", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: database ping failed: %v", usecase.ErrDependencyUnavailable, err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dbCheckDTO{Status: "ok", Version: version})
}

func (h *Handler) RunBackfill(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfill")
	defer span.End()

	var req backfillRequest
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

	result, err := h.backfillService.Backfill(ctx, usecase.BackfillInput{
		League:  req.League,
		Seasons: req.Seasons,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "backfill failed", "league", req.League, "seasons", len(req.Seasons), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
