package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SystemRepository answers liveness style questions about the database
// itself rather than any domain table.
type SystemRepository struct {
	db *sqlx.DB
}

func NewSystemRepository(db *sqlx.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

func (r *SystemRepository) Version(ctx context.Context) (string, error) {
	var version string
	if err := r.db.GetContext(ctx, &version, "SELECT version()"); err != nil {
		return "", fmt.Errorf("select version: %w", err)
	}
	return version, nil
}

func (r *SystemRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
