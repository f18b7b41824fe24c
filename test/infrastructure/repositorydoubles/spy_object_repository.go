//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/objectstore"
)

// SpyObjectRepository wraps an in-memory store and counts writes and flushes.
type SpyObjectRepository struct {
	repositories.ObjectRepository

	Saved      []entities.Record
	FlushCount int
	FlushErr   error
}

var _ repositories.ObjectRepository = (*SpyObjectRepository)(nil)

// NewSpyObjectRepository creates a spy backed by an empty in-memory store.
func NewSpyObjectRepository() *SpyObjectRepository {
	return &SpyObjectRepository{ObjectRepository: objectstore.NewMemoryObjectRepository()}
}

func (s *SpyObjectRepository) Save(ctx context.Context, record entities.Record) error {
	s.Saved = append(s.Saved, record)
	return s.ObjectRepository.Save(ctx, record)
}

func (s *SpyObjectRepository) Flush(ctx context.Context) error {
	s.FlushCount++
	if s.FlushErr != nil {
		return s.FlushErr
	}
	return s.ObjectRepository.Flush(ctx)
}

// Count returns the number of stored records of kind.
func (s *SpyObjectRepository) Count(kind entities.Kind) int {
	records, _ := s.ObjectRepository.List(context.Background(), kind)
	return len(records)
}
