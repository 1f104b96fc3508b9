package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wibowo/causal-football/internal/domain/match"
	qb "github.com/wibowo/causal-football/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertMatches(ctx context.Context, matches []match.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin match upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, m := range matches {
		if err := m.Validate(); err != nil {
			return 0, fmt.Errorf("%w: match_id=%s", err, m.MatchID)
		}
		query, args, err := qb.InsertModel("matches", matchInsertModelFromMatch(m), "ON CONFLICT (match_id) DO NOTHING")
		if err != nil {
			return 0, fmt.Errorf("build match insert query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert match match_id=%s: %w", m.MatchID, err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			inserted += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit match upsert: %w", err)
	}
	return inserted, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, league, season string) ([]match.Match, error) {
	query, args, err := qb.Select(
		"id",
		"match_id",
		"season",
		"league",
		"home",
		"away",
		"date",
		"created_at",
	).
		From("matches").
		Where(
			qb.Eq("league", league),
			qb.Eq("season", season),
		).
		OrderBy("date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}
