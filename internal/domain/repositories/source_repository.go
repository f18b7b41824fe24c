package repositories

import (
	"context"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// SourceRepository abstracts a repository hosting service (GitHub, GitLab).
// Every failing call returns an *entities.FetchError carrying the HTTP status.
type SourceRepository interface {
	// Name returns the source identifier (e.g. "github", "gitlab").
	Name() string

	// MatchesURL returns true if the given URL belongs to this source.
	MatchesURL(url string) bool

	// APIBaseURL returns the base URL of the source API, without trailing slash.
	APIBaseURL() string

	// GetRepository fetches a repository by its web URL.
	GetRepository(ctx context.Context, repoURL string) (entities.Repository, error)

	// DiscoverRepositories lists all repositories of an organization, group or user.
	DiscoverRepositories(ctx context.Context, org string) ([]entities.Repository, error)

	// GetOrganization fetches an organization, group or user profile by name.
	GetOrganization(ctx context.Context, name string) (entities.Organisation, error)

	// GetFile reads a file through the contents API. An empty ref means the default branch.
	GetFile(ctx context.Context, repo entities.Repository, path, ref string) (entities.RemoteFile, error)

	// GetRawFile reads a file as plain bytes at the given branch.
	GetRawFile(ctx context.Context, repo entities.Repository, branch, path string) (entities.RemoteFile, error)

	// Fetch performs a GET on an absolute URL and returns the body.
	Fetch(ctx context.Context, rawURL string) (entities.RemoteFile, error)

	// SearchPubliccode searches the source for publiccode files.
	SearchPubliccode(ctx context.Context) ([]entities.SearchHit, error)
}
