package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wibowo/causal-football/internal/platform/logging"
	"github.com/wibowo/causal-football/internal/usecase"
)

// DatabaseChecker reports the backing database version for the admin
// db-check endpoint.
type DatabaseChecker interface {
	Version(ctx context.Context) (string, error)
}

type Handler struct {
	ingestionService  *usecase.IngestionService
	predictionService *usecase.PredictionService
	backfillService   *usecase.BackfillService
	digestService     *usecase.DigestService
	notifier          usecase.Notifier
	dbChecker         DatabaseChecker
	missingConfig     []string
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	predictionService *usecase.PredictionService,
	backfillService *usecase.BackfillService,
	digestService *usecase.DigestService,
	notifier usecase.Notifier,
	dbChecker DatabaseChecker,
	missingConfig []string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestionService:  ingestionService,
		predictionService: predictionService,
		backfillService:   backfillService,
		digestService:     digestService,
		notifier:          notifier,
		dbChecker:         dbChecker,
		missingConfig:     missingConfig,
		logger:            logger,
		validator:         validator.New(),
	}
}

type healthzDTO struct {
	Status  string   `json:"status"`
	Missing []string `json:"missing,omitempty"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	report := healthzDTO{Status: "ok"}
	if len(h.missingConfig) > 0 {
		report.Status = "degraded"
		report.Missing = h.missingConfig
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
