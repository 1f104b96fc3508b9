package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wibowo/causal-football/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	nextID int64
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match), nextID: 1}
}

func (r *MatchRepository) UpsertMatches(_ context.Context, matches []match.Match) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, m := range matches {
		if err := m.Validate(); err != nil {
			return inserted, err
		}
		if _, ok := r.items[m.MatchID]; ok {
			continue
		}
		m.ID = r.nextID
		r.nextID++
		r.items[m.MatchID] = m
		inserted++
	}
	return inserted, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, league, season string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if m.League == league && m.Season == season {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
