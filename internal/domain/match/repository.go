package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	// UpsertMatches inserts fixtures, skipping match ids already stored.
	// Returns the number of rows actually written.
	UpsertMatches(ctx context.Context, matches []Match) (int, error)
	ListBySeason(ctx context.Context, league, season string) ([]Match, error)
}
