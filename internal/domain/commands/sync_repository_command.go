package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
)

// SyncRepository is the interface for synchronising a single repository.
type SyncRepository interface {
	Execute(ctx context.Context, repoURL string) (SyncResult, error)
}

// SyncOptions tunes a single repository synchronisation.
type SyncOptions struct {
	// PubliccodePath is a known path of the publiccode file (e.g. from a code search).
	PubliccodePath string
	// Repository skips the upstream lookup when the caller already fetched it.
	Repository *entities.Repository
}

// SyncResult is the outcome of a repository synchronisation.
// Component is nil when the repository holds no valid publiccode file.
type SyncResult struct {
	Repository *entities.Repository `json:"repository"`
	Component  *entities.Component  `json:"component,omitempty"`
}

// SyncRepositoryCommand fetches a repository, probes it for a publiccode file
// and reconciles the file into a component.
type SyncRepositoryCommand struct {
	sources    *infraRepos.SourceRegistry
	store      repositories.ObjectRepository
	reconciler *Reconciler
}

// NewSyncRepositoryCommand creates a new SyncRepositoryCommand.
func NewSyncRepositoryCommand(
	sources *infraRepos.SourceRegistry,
	store repositories.ObjectRepository,
	reconciler *Reconciler,
) *SyncRepositoryCommand {
	return &SyncRepositoryCommand{
		sources:    sources,
		store:      store,
		reconciler: reconciler,
	}
}

// Execute synchronises the repository at repoURL and flushes the store.
func (it *SyncRepositoryCommand) Execute(ctx context.Context, repoURL string) (SyncResult, error) {
	result, err := it.sync(ctx, repoURL, SyncOptions{})
	if err != nil {
		return result, err
	}
	if flushErr := it.store.Flush(ctx); flushErr != nil {
		return result, fmt.Errorf("failed to flush store: %w", flushErr)
	}
	return result, nil
}

// sync does the work of Execute without flushing, for use inside batch runs.
func (it *SyncRepositoryCommand) sync(ctx context.Context, repoURL string, opts SyncOptions) (SyncResult, error) {
	source, err := it.sources.Match(repoURL)
	if err != nil {
		return SyncResult{}, err
	}

	fresh := opts.Repository
	if fresh == nil {
		fetched, fetchErr := source.GetRepository(ctx, repoURL)
		if fetchErr != nil {
			if entities.StatusOf(fetchErr) == http.StatusNotFound {
				return SyncResult{}, fmt.Errorf("%w: %s", entities.ErrRepositoryNotFound, repoURL)
			}
			return SyncResult{}, fmt.Errorf("failed to fetch repository %s: %w", repoURL, fetchErr)
		}
		fresh = &fetched
	}

	repo, err := findOrCreateBySource[entities.Repository](ctx, it.store, fresh.Source, fresh.URL,
		func() *entities.Repository { return &entities.Repository{} },
	)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to look up repository %s: %w", fresh.URL, err)
	}
	repo.Merge(*fresh)
	now := time.Now().UTC()
	repo.LastSynced = &now

	result := SyncResult{Repository: repo}

	var knownPaths []string
	if opts.PubliccodePath != "" {
		knownPaths = append(knownPaths, opts.PubliccodePath)
	}
	hit, err := Probe(ctx, source, *repo, PubliccodeCandidates(*repo, knownPaths...))
	if err != nil {
		logger.Infof("[%s] No publiccode file in %s", source.Name(), repo.FullName())
		return result, it.saveRepository(ctx, repo)
	}
	repo.PubliccodeURL = hit.File.URL

	publiccode, err := decodePubliccode(hit.File)
	if err != nil {
		logger.Warnf("[%s] Ignoring publiccode file %s: %v", source.Name(), hit.File.URL, err)
		return result, it.saveRepository(ctx, repo)
	}

	component, err := it.reconciler.Reconcile(ctx, repo, publiccode)
	if err != nil {
		return result, err
	}
	result.Component = component
	return result, nil
}

func (it *SyncRepositoryCommand) saveRepository(ctx context.Context, repo *entities.Repository) error {
	if err := save(ctx, it.store, repo); err != nil {
		return fmt.Errorf("failed to save repository %s: %w", repo.URL, err)
	}
	return nil
}

func decodePubliccode(file entities.RemoteFile) (entities.Publiccode, error) {
	doc, err := entities.DecodePubliccode(file.Body, file.Envelope)
	if err != nil {
		return entities.Publiccode{}, err
	}
	publiccode, err := entities.MapPubliccode(doc)
	if err != nil {
		return entities.Publiccode{}, fmt.Errorf("%w: %w", entities.ErrInvalidDocument, err)
	}
	return publiccode, nil
}
