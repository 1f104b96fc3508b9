package postgres

import (
	"time"

	"github.com/wibowo/causal-football/internal/domain/audit"
)

type auditTableModel struct {
	ID         int64     `db:"id"`
	RunID      string    `db:"run_id"`
	SourceID   string    `db:"source_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	Confidence float64   `db:"confidence"`
	Signature  *string   `db:"signature"`
	Status     string    `db:"status"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}

type auditInsertModel struct {
	RunID      string  `db:"run_id"`
	SourceID   string  `db:"source_id"`
	EntityType string  `db:"entity_type"`
	EntityID   string  `db:"entity_id"`
	Action     string  `db:"action"`
	Confidence float64 `db:"confidence"`
	Signature  *string `db:"signature"`
	Status     string  `db:"status"`
	Message    string  `db:"message"`
}

func auditInsertModelFromRecord(rec audit.Record) auditInsertModel {
	return auditInsertModel{
		RunID:      rec.RunID,
		SourceID:   rec.SourceID,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Action:     rec.Action,
		Confidence: rec.Confidence,
		Signature:  rec.Signature,
		Status:     rec.Status,
		Message:    rec.Message,
	}
}

func auditRecordFromRow(row auditTableModel) audit.Record {
	return audit.Record{
		ID:         row.ID,
		RunID:      row.RunID,
		SourceID:   row.SourceID,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		Action:     row.Action,
		Confidence: row.Confidence,
		Signature:  row.Signature,
		Status:     row.Status,
		Message:    row.Message,
		CreatedAt:  row.CreatedAt,
	}
}

type featureRunInsertModel struct {
	RunID     string    `db:"run_id"`
	Tool      string    `db:"tool"`
	Total     int       `db:"total"`
	OK        int       `db:"ok"`
	Fail      int       `db:"fail"`
	Status    string    `db:"status"`
	Note      string    `db:"note"`
	StartedAt time.Time `db:"started_at"`
}

func featureRunInsertModelFromRun(run audit.FeatureRun) featureRunInsertModel {
	return featureRunInsertModel{
		RunID:     run.RunID,
		Tool:      run.Tool,
		Total:     run.Total,
		OK:        run.OK,
		Fail:      run.Fail,
		Status:    run.Status,
		Note:      run.Note,
		StartedAt: run.StartedAt,
	}
}
