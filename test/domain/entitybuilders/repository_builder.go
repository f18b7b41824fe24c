//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// RepositoryBuilder helps create test repositories with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	source        string
	owner         string
	name          string
	defaultBranch string
	archived      bool
	forkedFrom    string
}

// NewRepositoryBuilder creates a new repository builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		source:        entities.SourceGitHub,
		owner:         "org",
		name:          "repo",
		defaultBranch: "main",
	}
}

// WithSource sets the hosting source.
func (b *RepositoryBuilder) WithSource(source string) *RepositoryBuilder {
	b.source = source
	return b
}

// WithOwner sets the owner (organization or namespace).
func (b *RepositoryBuilder) WithOwner(owner string) *RepositoryBuilder {
	b.owner = owner
	return b
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithDefaultBranch sets the default branch.
func (b *RepositoryBuilder) WithDefaultBranch(branch string) *RepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// WithArchived marks the repository as archived.
func (b *RepositoryBuilder) WithArchived(archived bool) *RepositoryBuilder {
	b.archived = archived
	return b
}

// WithForkedFrom sets the upstream URL of a fork.
func (b *RepositoryBuilder) WithForkedFrom(url string) *RepositoryBuilder {
	b.forkedFrom = url
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() entities.Repository {
	host := "github.com"
	if b.source == entities.SourceGitLab {
		host = "gitlab.com"
	}
	return entities.Repository{
		Source:        b.source,
		URL:           "https://" + host + "/" + b.owner + "/" + b.name,
		Owner:         b.owner,
		Name:          b.name,
		DefaultBranch: b.defaultBranch,
		Archived:      b.archived,
		ForkedFrom:    b.forkedFrom,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.source = entities.SourceGitHub
	b.owner = "org"
	b.name = "repo"
	b.defaultBranch = "main"
	b.archived = false
	b.forkedFrom = ""
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		source:        b.source,
		owner:         b.owner,
		name:          b.name,
		defaultBranch: b.defaultBranch,
		archived:      b.archived,
		forkedFrom:    b.forkedFrom,
	}
}
