package store

import (
	"context"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Store persists flat snapshots of a dataset for downstream tooling.
type Store interface {
	Close() error

	// WriteSnapshot replaces whatever was stored before with index.
	WriteSnapshot(ctx context.Context, index taxonomy.FlatIndex) error

	// Records returns the stored records of one type in write order.
	Records(ctx context.Context, t taxonomy.Type) ([]taxonomy.FlatRecord, error)

	// Count reports how many records of each type are stored.
	Count(ctx context.Context) (map[taxonomy.Type]int, error)
}
