package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// ImportDeveloperOverheid is the interface for importing the developer.overheid.nl repository list.
type ImportDeveloperOverheid interface {
	Execute(ctx context.Context) (int, error)
}

// ImportComponentenCatalogus is the interface for importing the componentencatalogus products.
type ImportComponentenCatalogus interface {
	Execute(ctx context.Context) (int, error)
}

// ImportDeveloperOverheidCommand synchronises every repository listed on developer.overheid.nl.
type ImportDeveloperOverheidCommand struct {
	catalog  repositories.DeveloperOverheidRepository
	repos    *SyncRepositoryCommand
	settings *entities.Settings
}

// NewImportDeveloperOverheidCommand creates a new ImportDeveloperOverheidCommand.
func NewImportDeveloperOverheidCommand(
	catalog repositories.DeveloperOverheidRepository,
	repos *SyncRepositoryCommand,
	settings *entities.Settings,
) *ImportDeveloperOverheidCommand {
	return &ImportDeveloperOverheidCommand{catalog: catalog, repos: repos, settings: settings}
}

// Execute returns the number of repositories synchronised.
func (it *ImportDeveloperOverheidCommand) Execute(ctx context.Context) (int, error) {
	entries, listErr := it.catalog.ListRepositories(ctx)
	if listErr != nil {
		logger.Errorf("Listing developer.overheid.nl stopped early after %d repositories: %v", len(entries), listErr)
	}
	logger.Infof("Importing %d repositories from developer.overheid.nl", len(entries))

	b := newBatch(it.repos.store, it.settings.BatchSize)
	synced := 0
	for _, entry := range entries {
		_, syncErr := it.repos.sync(ctx, entry.RepositoryURL, SyncOptions{})
		b.tick(ctx)
		if syncErr != nil {
			logger.Errorf("Failed to sync %s: %v", entry.RepositoryURL, syncErr)
			continue
		}
		synced++
	}

	if err := b.done(ctx); err != nil {
		return synced, fmt.Errorf("failed to flush store: %w", err)
	}
	if listErr != nil {
		return synced, fmt.Errorf("failed to list developer.overheid.nl repositories: %w", listErr)
	}
	return synced, nil
}

// ImportComponentenCatalogusCommand creates an Application per componentencatalogus
// product and links the components of its repositories to it.
type ImportComponentenCatalogusCommand struct {
	catalog  repositories.ComponentenCatalogusRepository
	repos    *SyncRepositoryCommand
	settings *entities.Settings
}

// NewImportComponentenCatalogusCommand creates a new ImportComponentenCatalogusCommand.
func NewImportComponentenCatalogusCommand(
	catalog repositories.ComponentenCatalogusRepository,
	repos *SyncRepositoryCommand,
	settings *entities.Settings,
) *ImportComponentenCatalogusCommand {
	return &ImportComponentenCatalogusCommand{catalog: catalog, repos: repos, settings: settings}
}

// Execute returns the number of applications imported.
func (it *ImportComponentenCatalogusCommand) Execute(ctx context.Context) (int, error) {
	products, listErr := it.catalog.ListProducts(ctx)
	if listErr != nil {
		logger.Errorf("Listing the componentencatalogus stopped early after %d products: %v", len(products), listErr)
	}
	logger.Infof("Importing %d products from the componentencatalogus", len(products))

	store := it.repos.store
	b := newBatch(store, it.settings.BatchSize)
	imported := 0
	for _, product := range products {
		if product.Name == "" {
			continue
		}

		var components []string
		for _, repoURL := range product.RepositoryURLs {
			result, syncErr := it.repos.sync(ctx, repoURL, SyncOptions{})
			if syncErr != nil {
				logger.Errorf("Failed to sync %s of %q: %v", repoURL, product.Name, syncErr)
				continue
			}
			if result.Component != nil {
				components = append(components, result.Component.ID)
			}
		}

		// the repository syncs above may create the application through applicationSuite
		application, findErr := findOrCreateByKey[entities.Application](ctx, store, product.Name,
			func() *entities.Application { return &entities.Application{Name: product.Name} },
		)
		if findErr != nil {
			logger.Errorf("Failed to look up application %q: %v", product.Name, findErr)
			b.tick(ctx)
			continue
		}
		application.Summary = product.Summary
		application.Description = product.Description
		application.Logo = product.Logo
		for _, id := range components {
			application.Components = entities.AppendUnique(application.Components, id)
		}
		if saveErr := save(ctx, store, application); saveErr != nil {
			logger.Errorf("Failed to save application %q: %v", product.Name, saveErr)
			b.tick(ctx)
			continue
		}

		imported++
		b.tick(ctx)
	}

	if err := b.done(ctx); err != nil {
		return imported, fmt.Errorf("failed to flush store: %w", err)
	}
	if listErr != nil {
		return imported, fmt.Errorf("failed to list componentencatalogus products: %w", listErr)
	}
	return imported, nil
}
