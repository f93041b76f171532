package repository

import (
	"context"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// LookupRepository is the append-only audit log of lookups.
type LookupRepository interface {
	// Create appends a lookup.
	Create(ctx context.Context, lookup *model.Lookup) error

	// ListRecent returns the most recent lookups, newest first.
	ListRecent(ctx context.Context, limit int) ([]*model.Lookup, error)
}
