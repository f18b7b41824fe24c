package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
)

const (
	hostGitHubAvatars = "avatars.githubusercontent.com"
	hostGitHubRaw     = "raw.githubusercontent.com"
	hostGravatar      = "www.gravatar.com"
	hostGitHub        = "github.com"
	hostGitLab        = "gitlab.com"

	githubBlobSegment = "blob"
	gitlabBlobMarker  = "/-/blob/"
	gitlabUploads     = "/uploads/"
)

var errUnsupportedLogo = errors.New("unsupported logo reference")

// LogoResolver turns the logo reference of a publiccode or opencatalogi file
// into a fetchable absolute URL. Successful resolutions are memoised.
type LogoResolver struct {
	sources *infraRepos.SourceRegistry
	cache   *lru.Cache[string, string]
}

// NewLogoResolver creates a LogoResolver backed by the given source registry.
func NewLogoResolver(sources *infraRepos.SourceRegistry, settings *entities.Settings) (*LogoResolver, error) {
	cache, err := lru.New[string, string](settings.LogoCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create logo cache: %w", err)
	}
	return &LogoResolver{sources: sources, cache: cache}, nil
}

// Resolve returns the absolute logo URL, or nil when it cannot be resolved.
// A 403 from a validating call yields the original reference so it can be
// resolved again on a later run.
func (it *LogoResolver) Resolve(ctx context.Context, rawLogo string, repo entities.Repository) *string {
	rawLogo = strings.TrimSpace(rawLogo)
	if rawLogo == "" {
		return nil
	}

	key := repo.Source + "|" + repo.FullName() + "|" + rawLogo
	if cached, ok := it.cache.Get(key); ok {
		return &cached
	}

	resolved, err := it.resolve(ctx, rawLogo, repo)
	if err != nil {
		switch entities.StatusOf(err) {
		case http.StatusUnauthorized:
			logger.Warnf("Cannot resolve logo %q of %s: credentials rejected: %v", rawLogo, repo.FullName(), err)
			return nil
		case http.StatusForbidden:
			logger.Warnf("Rate limited while resolving logo %q of %s, keeping the original", rawLogo, repo.FullName())
			return &rawLogo
		case http.StatusNotFound:
			logger.Infof("Logo %q of %s does not exist", rawLogo, repo.FullName())
			return nil
		default:
			logger.Warnf("Cannot resolve logo %q of %s: %v", rawLogo, repo.FullName(), err)
			return nil
		}
	}
	if resolved == "" {
		return nil
	}

	it.cache.Add(key, resolved)
	return &resolved
}

func (it *LogoResolver) resolve(ctx context.Context, rawLogo string, repo entities.Repository) (string, error) {
	parsed, err := url.Parse(rawLogo)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return it.resolveRelative(ctx, rawLogo, repo)
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case host == hostGitHubAvatars || host == hostGravatar:
		return rawLogo, nil
	case host == hostGitHubRaw:
		return it.validate(ctx, rawLogo, repo)
	case host == hostGitHub:
		return it.resolveGitHubBlob(ctx, parsed)
	case host == hostGitLab:
		return it.resolveGitLab(ctx, rawLogo, parsed)
	default:
		return "", fmt.Errorf("%w: host %q", errUnsupportedLogo, host)
	}
}

// resolveRelative treats the logo as a path from the repository root.
func (it *LogoResolver) resolveRelative(ctx context.Context, rawLogo string, repo entities.Repository) (string, error) {
	source, err := it.sources.Get(repo.Source)
	if err != nil {
		return "", err
	}

	path := strings.TrimPrefix(strings.TrimPrefix(rawLogo, "./"), "/")
	file, err := source.GetFile(ctx, repo, path, "")
	if err != nil {
		return "", err
	}
	return downloadURL(source, repo, file)
}

// validate checks that an absolute URL is reachable and returns it unchanged.
func (it *LogoResolver) validate(ctx context.Context, rawLogo string, repo entities.Repository) (string, error) {
	source, err := it.sources.Get(entities.SourceGitHub)
	if err != nil {
		source, err = it.sources.Get(repo.Source)
		if err != nil {
			return "", err
		}
	}
	if _, fetchErr := source.Fetch(ctx, rawLogo); fetchErr != nil {
		return "", fetchErr
	}
	return rawLogo, nil
}

// resolveGitHubBlob rewrites /{owner}/{repo}/blob/{branch}/{path} to the contents API download_url.
func (it *LogoResolver) resolveGitHubBlob(ctx context.Context, parsed *url.URL) (string, error) {
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 5 || segments[2] != githubBlobSegment {
		return "", fmt.Errorf("%w: %q is not a blob URL", errUnsupportedLogo, parsed.String())
	}

	source, err := it.sources.Get(entities.SourceGitHub)
	if err != nil {
		return "", err
	}

	repo := entities.Repository{
		Source: entities.SourceGitHub,
		Owner:  segments[0],
		Name:   segments[1],
		URL:    fmt.Sprintf("https://%s/%s/%s", hostGitHub, segments[0], segments[1]),
	}
	branch := segments[3]
	path := strings.Join(segments[4:], "/")

	file, err := source.GetFile(ctx, repo, path, branch)
	if err != nil {
		return "", err
	}
	return downloadURL(source, repo, file)
}

// resolveGitLab keeps upload URLs and rewrites /-/blob/{branch}/{path} URLs to the blob raw endpoint.
func (it *LogoResolver) resolveGitLab(ctx context.Context, rawLogo string, parsed *url.URL) (string, error) {
	if strings.Contains(parsed.Path, gitlabUploads) {
		return rawLogo, nil
	}

	idx := strings.Index(parsed.Path, gitlabBlobMarker)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q is not a blob URL", errUnsupportedLogo, rawLogo)
	}

	projectPath := strings.Trim(parsed.Path[:idx], "/")
	branch, path, found := strings.Cut(parsed.Path[idx+len(gitlabBlobMarker):], "/")
	if projectPath == "" || !found || path == "" {
		return "", fmt.Errorf("%w: %q is not a blob URL", errUnsupportedLogo, rawLogo)
	}

	source, err := it.sources.Get(entities.SourceGitLab)
	if err != nil {
		return "", err
	}

	owner, name := splitProjectPath(projectPath)
	repo := entities.Repository{
		Source: entities.SourceGitLab,
		Owner:  owner,
		Name:   name,
		URL:    fmt.Sprintf("https://%s/%s", hostGitLab, projectPath),
	}

	file, err := source.GetFile(ctx, repo, path, branch)
	if err != nil {
		return "", err
	}
	return downloadURL(source, repo, file)
}

// downloadURL picks the download location of a file fetched from the contents API.
// GitLab files are addressed through their blob id.
func downloadURL(source repositories.SourceRepository, repo entities.Repository, file entities.RemoteFile) (string, error) {
	if source.Name() == entities.SourceGitLab && file.BlobID != "" {
		project := repo.ProjectID
		if project == "" {
			project = repo.FullName()
		}
		return fmt.Sprintf(
			"%s/projects/%s/repository/blobs/%s/raw",
			strings.TrimSuffix(source.APIBaseURL(), "/"), url.PathEscape(project), file.BlobID,
		), nil
	}
	if file.DownloadURL == "" {
		return "", fmt.Errorf("%w: no download url for %s", errUnsupportedLogo, file.Path)
	}
	return file.DownloadURL, nil
}

func splitProjectPath(projectPath string) (string, string) {
	idx := strings.LastIndex(projectPath, "/")
	if idx < 0 {
		return "", projectPath
	}
	return projectPath[:idx], projectPath[idx+1:]
}
