package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wibowo/causal-football/internal/domain/audit"
	"github.com/wibowo/causal-football/internal/domain/factors"
	"github.com/wibowo/causal-football/internal/domain/importance"
	"github.com/wibowo/causal-football/internal/domain/ingest"
)

const (
	maxBatchItems     = 500
	maxPayloadChars   = 200_000
	defaultRunID      = "manual"
	defaultSourceID   = "unknown"
	defaultConfidence = 1.0
)

// IngestBatch is one ingestion request: typed items plus the dry-run switch.
type IngestBatch struct {
	Items  []ingest.Item
	DryRun bool
}

// ItemResult is the per-item outcome returned to the caller. Match items
// additionally carry the causal snapshot computed from their payload.
type ItemResult struct {
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Schema     string            `json:"schema"`
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Importance importance.Result `json:"importance"`
	Causal     *factors.Snapshot `json:"causal,omitempty"`
}

// IngestReport is the batch outcome: per-item results with the folded
// overall status and how many rows were persisted.
type IngestReport struct {
	Overall  string       `json:"overall"`
	Count    int          `json:"count"`
	Results  []ItemResult `json:"results"`
	DryRun   bool         `json:"dry_run"`
	Inserted int          `json:"inserted"`
}

type IngestionService struct {
	auditRepo audit.Repository
	now       func() time.Time
}

func NewIngestionService(auditRepo audit.Repository) *IngestionService {
	return &IngestionService{auditRepo: auditRepo, now: time.Now}
}

// Ingest runs the full pipeline over one batch: assign missing entity ids,
// validate each item, score importance, detect same-batch conflicts, fold
// everything into per-item statuses and persist what survived.
//
// Only items that end up accepted are written, and only when the batch is
// not a dry run. Conflict detection runs over the whole batch regardless.
func (s *IngestionService) Ingest(ctx context.Context, batch IngestBatch) (*IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	if len(batch.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrInvalidInput)
	}
	if len(batch.Items) > maxBatchItems {
		return nil, fmt.Errorf("%w: too many items (max %d)", ErrInvalidInput, maxBatchItems)
	}

	now := s.now().UTC()
	items := make([]ingest.Item, len(batch.Items))
	copy(items, batch.Items)

	for i := range items {
		if err := validateItemMeta(items[i]); err != nil {
			return nil, err
		}
		if items[i].SnapshotAt.IsZero() {
			items[i].SnapshotAt = now
		}
		assignEntityID(&items[i])
	}

	results := make([]ItemResult, 0, len(items))
	accepted := make([]int, 0, len(items))
	for i, it := range items {
		status, message := validatePayload(it)
		res := ItemResult{
			EntityType: it.EntityType,
			EntityID:   it.EntityID,
			Schema:     it.SchemaTag(),
			Status:     status,
			Message:    message,
			Importance: importance.Score(it.EntityType, it.Payload),
		}
		if ingest.NormalizeEntityType(it.EntityType) == ingest.EntityMatch && status != ingest.StatusBlock {
			_, snap := factors.Score(it.Payload, 0)
			res.Causal = &snap
		}
		results = append(results, res)
		if status == ingest.StatusAccepted {
			accepted = append(accepted, i)
		}
	}

	marks := ingest.DetectConflicts(items)
	for i := range results {
		tag, ok := marks[results[i].EntityID]
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(tag, "block"):
			results[i].Status = ingest.StatusBlock
		case strings.HasPrefix(tag, "warn") && results[i].Status == ingest.StatusAccepted:
			results[i].Status = ingest.StatusWarn
		}
		if results[i].Message != "" {
			results[i].Message += " | " + tag
		} else {
			results[i].Message = tag
		}
	}

	inserted := 0
	if !batch.DryRun {
		records := make([]audit.Record, 0, len(accepted))
		for _, i := range accepted {
			if results[i].Status != ingest.StatusAccepted {
				continue
			}
			records = append(records, auditRecord(items[i]))
		}
		if len(records) > 0 {
			n, err := s.auditRepo.InsertRecords(ctx, records)
			if err != nil {
				return nil, fmt.Errorf("insert audit records: %w", err)
			}
			inserted = n
		}
	}

	statuses := make([]string, 0, len(results))
	for _, r := range results {
		statuses = append(statuses, r.Status)
	}

	return &IngestReport{
		Overall:  ingest.OverallStatus(statuses),
		Count:    len(results),
		Results:  results,
		DryRun:   batch.DryRun,
		Inserted: inserted,
	}, nil
}

func validateItemMeta(it ingest.Item) error {
	if strings.TrimSpace(it.SchemaName) == "" || strings.TrimSpace(it.SchemaVersion) == "" {
		return fmt.Errorf("%w: schema name and version are required", ErrInvalidInput)
	}
	if strings.TrimSpace(it.EntityType) == "" {
		return fmt.Errorf("%w: entity_type is required", ErrInvalidInput)
	}
	if it.Confidence != nil && (*it.Confidence < 0 || *it.Confidence > 1) {
		return fmt.Errorf("%w: confidence must be in [0,1]", ErrInvalidInput)
	}
	return nil
}

// assignEntityID fills the entity id for kinds that own a UID generator,
// unless the caller already supplied one carrying the kind's prefix.
func assignEntityID(it *ingest.Item) {
	kind := ingest.NormalizeEntityType(it.EntityType)
	if !ingest.HasUIDGenerator(kind) {
		return
	}

	eid := strings.TrimSpace(it.EntityID)
	if strings.HasPrefix(eid, ingest.UIDPrefix(kind)+"_") {
		it.EntityID = eid
		return
	}

	// Players carry their provider id under provider_player_id; the generic
	// provider_id is only a fallback for them.
	providerID := ingest.PayloadString(it.Payload, "provider_id")
	if kind == ingest.EntityPlayer {
		providerID = ingest.PayloadString(it.Payload, "provider_player_id", "provider_id")
	}

	it.EntityID = ingest.MakeUID(
		kind,
		ingest.PayloadString(it.Payload, "provider"),
		providerID,
		ingest.PayloadString(it.Payload, "name"),
		ingest.PayloadString(it.Payload, "birth_date"),
	)
}

func validatePayload(it ingest.Item) (status, message string) {
	if len(it.Payload) == 0 {
		return ingest.StatusBlock, "payload empty"
	}
	if payloadSize(it.Payload) > maxPayloadChars {
		return ingest.StatusBlock, fmt.Sprintf("payload too large (>%dk chars)", maxPayloadChars/1000)
	}
	if it.Confidence == nil {
		return ingest.StatusWarn, "confidence missing"
	}
	return ingest.StatusAccepted, "ok"
}

func payloadSize(payload map[string]any) int {
	return len(fmt.Sprint(payload))
}

func auditRecord(it ingest.Item) audit.Record {
	rec := audit.Record{
		RunID:      defaultRunID,
		SourceID:   defaultSourceID,
		EntityType: it.EntityType,
		EntityID:   it.EntityID,
		Action:     audit.ActionIngest,
		Confidence: defaultConfidence,
		Status:     ingest.StatusAccepted,
		Message:    "ok",
		CreatedAt:  it.SnapshotAt,
	}
	if it.RunID != "" {
		rec.RunID = it.RunID
	}
	if it.SourceID != "" {
		rec.SourceID = it.SourceID
	}
	if it.Confidence != nil {
		rec.Confidence = *it.Confidence
	}
	if it.Signature != "" {
		sig := it.Signature
		rec.Signature = &sig
	}
	return rec
}
