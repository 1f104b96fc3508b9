package cache

import (
	"context"
	"strconv"

	"github.com/wibowo/causal-football/internal/domain/match"
	"github.com/wibowo/causal-football/internal/domain/prediction"
	basecache "github.com/wibowo/causal-football/internal/platform/cache"
)

// PredictionRepository caches prediction reads in front of the backing
// store. Saves write through and drop the cached lists for that match.
type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{next: next, cache: cache}
}

func (r *PredictionRepository) Save(ctx context.Context, rec prediction.Record) error {
	if err := r.next.Save(ctx, rec); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "prediction:match:"+rec.MatchID+":")
	return nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string, limit int) ([]prediction.Record, error) {
	key := "prediction:match:" + matchID + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByMatch(ctx, matchID, limit)
		if err != nil {
			return nil, err
		}
		return append([]prediction.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]prediction.Record)
	return append([]prediction.Record(nil), items...), nil
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, matches []match.Match) (int, error) {
	inserted, err := r.next.UpsertMatches(ctx, matches)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		r.cache.DeletePrefix(ctx, "match:season:")
	}
	return inserted, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, league, season string) ([]match.Match, error) {
	key := "match:season:" + league + ":" + season
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, league, season)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}
