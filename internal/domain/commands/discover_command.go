package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	infraRepos "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
)

// Discover is the interface for finding publiccode files through a source's code search.
type Discover interface {
	Execute(ctx context.Context, sourceName string) (int, error)
}

// DiscoverCommand synchronises every repository a code search reports a publiccode file in.
type DiscoverCommand struct {
	sources  *infraRepos.SourceRegistry
	repos    *SyncRepositoryCommand
	settings *entities.Settings
}

// NewDiscoverCommand creates a new DiscoverCommand.
func NewDiscoverCommand(
	sources *infraRepos.SourceRegistry,
	repos *SyncRepositoryCommand,
	settings *entities.Settings,
) *DiscoverCommand {
	return &DiscoverCommand{sources: sources, repos: repos, settings: settings}
}

// Execute runs the search on the named source and returns the number of components reconciled.
func (it *DiscoverCommand) Execute(ctx context.Context, sourceName string) (int, error) {
	source, err := it.sources.Get(sourceName)
	if err != nil {
		return 0, err
	}

	// a failing later page still returns the hits of the pages before it
	hits, searchErr := source.SearchPubliccode(ctx)
	if searchErr != nil {
		logger.Errorf("[%s] Code search stopped early after %d hits: %v", sourceName, len(hits), searchErr)
	}
	logger.Infof("[%s] Code search returned %d publiccode files", sourceName, len(hits))

	b := newBatch(it.repos.store, it.settings.BatchSize)
	components := 0
	for _, hit := range hits {
		// search results carry partial repositories, so the full one is fetched again
		result, syncErr := it.repos.sync(ctx, hit.Repository.URL, SyncOptions{PubliccodePath: hit.Path})
		b.tick(ctx)
		if syncErr != nil {
			logger.Errorf("[%s] Failed to sync %s: %v", sourceName, hit.Repository.URL, syncErr)
			continue
		}
		if result.Component != nil {
			components++
		}
	}

	if err = b.done(ctx); err != nil {
		return components, fmt.Errorf("failed to flush store: %w", err)
	}
	if searchErr != nil {
		return components, fmt.Errorf("failed to search %s for publiccode files: %w", sourceName, searchErr)
	}
	return components, nil
}
