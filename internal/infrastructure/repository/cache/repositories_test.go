package cache

import (
	"testing"
	"time"

	"github.com/wibowo/causal-football/internal/domain/prediction"
	"github.com/wibowo/causal-football/internal/infrastructure/repository/memory"
	basecache "github.com/wibowo/causal-football/internal/platform/cache"
)

func TestPredictionRepository_CachesListByMatch(t *testing.T) {
	ctx := t.Context()
	backing := memory.NewPredictionRepository()
	repo := NewPredictionRepository(backing, basecache.NewStore(time.Minute))

	if err := repo.Save(ctx, prediction.Record{MatchID: "m1", Model: "v5", Result: []byte(`{}`)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := repo.ListByMatch(ctx, "m1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 record, got %d", len(first))
	}

	// Write directly to the backing store; the cached list must not see it.
	if err := backing.Save(ctx, prediction.Record{MatchID: "m1", Model: "triad", Result: []byte(`{}`)}); err != nil {
		t.Fatalf("backing save: %v", err)
	}
	cached, err := repo.ListByMatch(ctx, "m1", 10)
	if err != nil {
		t.Fatalf("list cached: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("expected cached list of 1, got %d", len(cached))
	}
}

func TestPredictionRepository_SaveInvalidatesMatch(t *testing.T) {
	ctx := t.Context()
	repo := NewPredictionRepository(memory.NewPredictionRepository(), basecache.NewStore(time.Minute))

	if err := repo.Save(ctx, prediction.Record{MatchID: "m1", Model: "v5", Result: []byte(`{}`)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := repo.ListByMatch(ctx, "m1", 10); err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := repo.Save(ctx, prediction.Record{MatchID: "m1", Model: "ensemble", Result: []byte(`{}`)}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	records, err := repo.ListByMatch(ctx, "m1", 10)
	if err != nil {
		t.Fatalf("list after invalidation: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after invalidation, got %d", len(records))
	}
}
