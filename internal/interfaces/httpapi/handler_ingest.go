package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/wibowo/causal-football/internal/domain/factors"
	"github.com/wibowo/causal-football/internal/domain/ingest"
	"github.com/wibowo/causal-football/internal/usecase"
)

type ingestItemRequest struct {
	SchemaName    string         `json:"schema_name" validate:"required,max=64"`
	SchemaVersion string         `json:"schema_version" validate:"required,max=32"`
	EntityType    string         `json:"entity_type" validate:"required,max=32"`
	EntityID      string         `json:"entity_id" validate:"omitempty,max=128"`
	Payload       map[string]any `json:"payload"`
	RunID         string         `json:"run_id" validate:"omitempty,max=64"`
	SourceID      string         `json:"source_id" validate:"omitempty,max=64"`
	Signature     string         `json:"signature" validate:"omitempty,max=256"`
	Confidence    *float64       `json:"confidence"`
	SnapshotAt    *time.Time     `json:"snapshot_at"`
}

type ingestBatchRequest struct {
	Items  []ingestItemRequest `json:"items" validate:"required,min=1,dive"`
	DryRun *bool               `json:"dry_run"`
	Notify bool                `json:"notify"`
}

type factorsPreviewRequest struct {
	Payload map[string]any `json:"payload" validate:"required"`
	P0      float64        `json:"p0" validate:"omitempty,gte=0,lte=1"`
}

type factorsPreviewDTO struct {
	Factors []factors.Result `json:"factors"`
	Causal  factors.Snapshot `json:"causal"`
}

func (h *Handler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestBatch")
	defer span.End()

	var req ingestBatchRequest
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

	// Dry run is the default so a malformed crawler batch cannot write
	// audit rows unless the caller explicitly opts in.
	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	items := make([]ingest.Item, 0, len(req.Items))
	for _, it := range req.Items {
		item := ingest.Item{
			SchemaName:    it.SchemaName,
			SchemaVersion: it.SchemaVersion,
			EntityType:    it.EntityType,
			EntityID:      it.EntityID,
			Payload:       it.Payload,
			RunID:         it.RunID,
			SourceID:      it.SourceID,
			Signature:     it.Signature,
			Confidence:    it.Confidence,
		}
		if it.SnapshotAt != nil {
			item.SnapshotAt = *it.SnapshotAt
		}
		items = append(items, item)
	}

	report, err := h.ingestionService.Ingest(ctx, usecase.IngestBatch{Items: items, DryRun: dryRun})
	if err != nil {
		h.logger.WarnContext(ctx, "ingest batch failed", "items", len(items), "dry_run", dryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	if req.Notify && h.digestService != nil {
		runID := firstRunID(items)
		if sent, err := h.digestService.PushIngestDigest(ctx, runID, report); err != nil {
			h.logger.WarnContext(ctx, "ingest digest push failed", "run_id", runID, "error", err)
		} else if !sent {
			h.logger.DebugContext(ctx, "ingest digest skipped", "run_id", runID)
		}
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) PreviewFactors(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewFactors")
	defer span.End()

	var req factorsPreviewRequest
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

	eval, snapshot := factors.Score(req.Payload, req.P0)
	writeSuccess(ctx, w, http.StatusOK, factorsPreviewDTO{
		Factors: eval.Items,
		Causal:  snapshot,
	})
}

func firstRunID(items []ingest.Item) string {
	for _, it := range items {
		if runID := strings.TrimSpace(it.RunID); runID != "" {
			return runID
		}
	}
	return ""
}
