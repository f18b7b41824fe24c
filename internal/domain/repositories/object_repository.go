package repositories

import (
	"context"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// ObjectRepository persists entity records. Lookups return
// entities.ErrObjectNotFound when nothing matches.
type ObjectRepository interface {
	// Get returns the record with the given ID.
	Get(ctx context.Context, kind entities.Kind, id string) (entities.Record, error)

	// FindByKey returns the first record of kind with the given natural key.
	FindByKey(ctx context.Context, kind entities.Kind, key string) (entities.Record, error)

	// FindBySource returns the record bound to (source, sourceID).
	FindBySource(ctx context.Context, kind entities.Kind, source, sourceID string) (entities.Record, error)

	// List returns every record of kind.
	List(ctx context.Context, kind entities.Kind) ([]entities.Record, error)

	// Save inserts or replaces a record by ID. Writes may be buffered until Flush.
	Save(ctx context.Context, record entities.Record) error

	// Flush commits buffered writes.
	Flush(ctx context.Context) error
}
