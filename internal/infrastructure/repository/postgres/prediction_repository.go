package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wibowo/causal-football/internal/domain/prediction"
	qb "github.com/wibowo/causal-football/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Save(ctx context.Context, rec prediction.Record) error {
	query, args, err := qb.InsertModel("predictions", predictionInsertModelFromRecord(rec), "")
	if err != nil {
		return fmt.Errorf("build prediction insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction match_id=%s: %w", rec.MatchID, err)
	}
	return nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string, limit int) ([]prediction.Record, error) {
	builder := qb.Select(
		"id",
		"match_id",
		"model",
		"payload_json",
		"result_json",
		"created_at",
	).
		From("predictions").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionRecordFromRow(row))
	}
	return out, nil
}
