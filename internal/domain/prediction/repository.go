package prediction

import (
	"context"
	"time"
)

// Record is one stored prediction row.
type Record struct {
	ID        int64     `db:"id"`
	MatchID   string    `db:"match_id"`
	Model     string    `db:"model"`
	Payload   []byte    `db:"payload_json"`
	Result    []byte    `db:"result_json"`
	CreatedAt time.Time `db:"created_at"`
}

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	ListByMatch(ctx context.Context, matchID string, limit int) ([]Record, error)
}
