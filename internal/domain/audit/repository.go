package audit

import "context"

// Repository describes audit persistence needs from use cases.
type Repository interface {
	InsertRecords(ctx context.Context, records []Record) (int, error)
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]Record, error)

	StartFeatureRun(ctx context.Context, run FeatureRun) error
	FinishFeatureRun(ctx context.Context, run FeatureRun) error
}
