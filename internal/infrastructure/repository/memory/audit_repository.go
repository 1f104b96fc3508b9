package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/wibowo/causal-football/internal/domain/audit"
)

type AuditRepository struct {
	mu      sync.RWMutex
	records []audit.Record
	runs    map[string]audit.FeatureRun
	nextID  int64
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{runs: make(map[string]audit.FeatureRun), nextID: 1}
}

func (r *AuditRepository) InsertRecords(_ context.Context, records []audit.Record) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		rec.ID = r.nextID
		r.nextID++
		r.records = append(r.records, rec)
	}
	return len(records), nil
}

func (r *AuditRepository) ListByEntity(_ context.Context, entityType, entityID string, limit int) ([]audit.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]audit.Record, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.EntityType != entityType || rec.EntityID != entityID {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *AuditRepository) StartFeatureRun(_ context.Context, run audit.FeatureRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.RunID]; ok {
		return fmt.Errorf("feature run %s already exists", run.RunID)
	}
	r.runs[run.RunID] = run
	return nil
}

func (r *AuditRepository) FinishFeatureRun(_ context.Context, run audit.FeatureRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.RunID]; !ok {
		return fmt.Errorf("feature run %s not found", run.RunID)
	}
	r.runs[run.RunID] = run
	return nil
}

// Records returns a snapshot of everything inserted, oldest first.
func (r *AuditRepository) Records() []audit.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]audit.Record(nil), r.records...)
}

// FeatureRun returns the stored run state for assertions in tests.
func (r *AuditRepository) FeatureRun(runID string) (audit.FeatureRun, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[runID]
	return run, ok
}
