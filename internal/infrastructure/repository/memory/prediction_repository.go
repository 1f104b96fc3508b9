package memory

import (
	"context"
	"sync"

	"github.com/wibowo/causal-football/internal/domain/prediction"
)

type PredictionRepository struct {
	mu      sync.RWMutex
	records []prediction.Record
	nextID  int64
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{nextID: 1}
}

func (r *PredictionRepository) Save(_ context.Context, rec prediction.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = r.nextID
	r.nextID++
	r.records = append(r.records, clonePredictionRecord(rec))
	return nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string, limit int) ([]prediction.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Record, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].MatchID != matchID {
			continue
		}
		out = append(out, clonePredictionRecord(r.records[i]))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func clonePredictionRecord(rec prediction.Record) prediction.Record {
	copied := rec
	copied.Payload = append([]byte(nil), rec.Payload...)
	copied.Result = append([]byte(nil), rec.Result...)
	return copied
}
