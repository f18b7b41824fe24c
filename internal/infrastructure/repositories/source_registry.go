package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	domainRepos "github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// SourceRegistry holds the configured repository hosting sources.
type SourceRegistry struct {
	sources map[string]domainRepos.SourceRepository
}

// NewSourceRegistry creates an empty source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]domainRepos.SourceRepository),
	}
}

// Register adds a source under its own name.
func (r *SourceRegistry) Register(source domainRepos.SourceRepository) {
	r.sources[source.Name()] = source
}

// Get returns the source registered under name (e.g. "github").
func (r *SourceRegistry) Get(name string) (domainRepos.SourceRepository, error) {
	source, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownSource, name)
	}
	return source, nil
}

// Match returns the source hosting the given repository URL.
func (r *SourceRegistry) Match(repoURL string) (domainRepos.SourceRepository, error) {
	for _, name := range r.Names() {
		if r.sources[name].MatchesURL(repoURL) {
			return r.sources[name], nil
		}
	}
	return nil, fmt.Errorf("%w for %q", entities.ErrUnknownSource, repoURL)
}

// Names returns the sorted list of registered source names.
func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
