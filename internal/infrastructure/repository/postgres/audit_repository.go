package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wibowo/causal-football/internal/domain/audit"
	qb "github.com/wibowo/causal-football/internal/platform/querybuilder"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertRecords(ctx context.Context, records []audit.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin audit insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, rec := range records {
		query, args, err := qb.InsertModel("dpc_ingest_audit", auditInsertModelFromRecord(rec), "")
		if err != nil {
			return 0, fmt.Errorf("build audit insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert audit record entity_id=%s: %w", rec.EntityID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit audit insert: %w", err)
	}
	return inserted, nil
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]audit.Record, error) {
	builder := auditBaseSelectBuilder().
		Where(
			qb.Eq("entity_type", entityType),
			qb.Eq("entity_id", entityID),
		).
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list audit query: %w", err)
	}

	var rows []auditTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}

	out := make([]audit.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, auditRecordFromRow(row))
	}
	return out, nil
}

func (r *AuditRepository) StartFeatureRun(ctx context.Context, run audit.FeatureRun) error {
	query, args, err := qb.InsertModel("feature_runs", featureRunInsertModelFromRun(run), "ON CONFLICT (run_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build feature run insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("start feature run run_id=%s: %w", run.RunID, err)
	}
	return nil
}

func (r *AuditRepository) FinishFeatureRun(ctx context.Context, run audit.FeatureRun) error {
	query, args, err := qb.Update("feature_runs").
		Set("total", run.Total).
		Set("ok", run.OK).
		Set("fail", run.Fail).
		Set("status", run.Status).
		Set("note", run.Note).
		Set("finished_at", run.FinishedAt).
		Where(qb.Eq("run_id", run.RunID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build feature run update query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("finish feature run run_id=%s: %w", run.RunID, err)
	}
	return nil
}

func auditBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"run_id",
		"source_id",
		"entity_type",
		"entity_id",
		"action",
		"confidence",
		"signature",
		"status",
		"message",
		"created_at",
	).From("dpc_ingest_audit")
}
