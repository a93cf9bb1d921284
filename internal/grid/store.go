package grid

import (
	"context"

	"github.com/tOgg1/taskdeck/internal/models"
)

// Store is the remote task store: filtered reads plus single-row mutations.
// Each mutation reports whether a row was affected.
type Store interface {
	Fetcher
	UpdateField(ctx context.Context, table, keyField, keyValue, column, value string) (bool, error)
	CopyRow(ctx context.Context, id string) (bool, error)
	DeleteRow(ctx context.Context, id string) (bool, error)
}

// UpdateSource delivers background snapshots of each dataset.
type UpdateSource interface {
	Updates(kind models.Kind) <-chan Snapshot
}
