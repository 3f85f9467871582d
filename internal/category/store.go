package category

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("category not found")

// Store is the read interface over the category graph. The graph is owned
// by an external admin surface; this service never writes to it.
type Store interface {
	BySlug(ctx context.Context, slug string) (Category, error)
	// ChildrenOf returns all categories whose parent_id is in parentIDs.
	ChildrenOf(ctx context.Context, parentIDs []int64) ([]Category, error)
	ListActive(ctx context.Context) ([]Category, error)
}
