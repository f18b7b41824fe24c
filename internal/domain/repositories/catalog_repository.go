package repositories

import (
	"context"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// DeveloperOverheidRepository lists repositories registered on developer.overheid.nl.
type DeveloperOverheidRepository interface {
	ListRepositories(ctx context.Context) ([]entities.CatalogEntry, error)
}

// ComponentenCatalogusRepository lists products of the componentencatalogus.
type ComponentenCatalogusRepository interface {
	ListProducts(ctx context.Context) ([]entities.CatalogProduct, error)
}
