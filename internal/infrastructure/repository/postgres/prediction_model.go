package postgres

import (
	"time"

	"github.com/wibowo/causal-football/internal/domain/prediction"
)

type predictionTableModel struct {
	ID        int64     `db:"id"`
	MatchID   string    `db:"match_id"`
	Model     string    `db:"model"`
	Payload   []byte    `db:"payload_json"`
	Result    []byte    `db:"result_json"`
	CreatedAt time.Time `db:"created_at"`
}

type predictionInsertModel struct {
	MatchID string `db:"match_id"`
	Model   string `db:"model"`
	Payload []byte `db:"payload_json"`
	Result  []byte `db:"result_json"`
}

func predictionInsertModelFromRecord(rec prediction.Record) predictionInsertModel {
	return predictionInsertModel{
		MatchID: rec.MatchID,
		Model:   rec.Model,
		Payload: rec.Payload,
		Result:  rec.Result,
	}
}

func predictionRecordFromRow(row predictionTableModel) prediction.Record {
	return prediction.Record{
		ID:        row.ID,
		MatchID:   row.MatchID,
		Model:     row.Model,
		Payload:   row.Payload,
		Result:    row.Result,
		CreatedAt: row.CreatedAt,
	}
}
