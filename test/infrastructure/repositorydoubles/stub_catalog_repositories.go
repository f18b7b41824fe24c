//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// StubDeveloperOverheidRepository implements repositories.DeveloperOverheidRepository.
type StubDeveloperOverheidRepository struct {
	Entries []entities.CatalogEntry
	Err     error
}

var _ repositories.DeveloperOverheidRepository = (*StubDeveloperOverheidRepository)(nil)

func (s *StubDeveloperOverheidRepository) ListRepositories(context.Context) ([]entities.CatalogEntry, error) {
	return s.Entries, s.Err
}

// StubComponentenCatalogusRepository implements repositories.ComponentenCatalogusRepository.
type StubComponentenCatalogusRepository struct {
	Products []entities.CatalogProduct
	Err      error
}

var _ repositories.ComponentenCatalogusRepository = (*StubComponentenCatalogusRepository)(nil)

func (s *StubComponentenCatalogusRepository) ListProducts(context.Context) ([]entities.CatalogProduct, error) {
	return s.Products, s.Err
}
