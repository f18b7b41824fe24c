package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/rawhttp"
)

const (
	sourceName     = entities.SourceGitLab
	perPage        = 100
	searchQuery    = "filename:publiccode.*"
	publiccodeStem = "publiccode"
	encodingBase64 = "base64"
	defaultRef     = "HEAD"
	routeSeparator = "/-/"
)

// GitLabSourceRepository implements repositories.SourceRepository for GitLab.
type GitLabSourceRepository struct {
	token   string
	apiURL  string
	webHost string
	client  *gl.Client
	raw     *rawhttp.Client
}

// NewGitLabSourceRepository creates a GitLab source from its settings.
// A nil httpClient uses a pooled cleanhttp client.
func NewGitLabSourceRepository(
	settings entities.SourceSettings,
	httpClient *http.Client,
) (repositories.SourceRepository, error) {
	token := settings.Token
	apiURL := strings.TrimSuffix(settings.APIURL, "/")

	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gitlab api url %q: %w", settings.APIURL, err)
	}

	raw := rawhttp.NewWithHTTPClient(httpClient, nil)
	if token != "" {
		raw = rawhttp.NewWithHTTPClient(httpClient, map[string]string{"PRIVATE-TOKEN": token})
	}

	options := []gl.ClientOptionFunc{gl.WithBaseURL(apiURL)}
	if httpClient != nil {
		options = append(options, gl.WithHTTPClient(httpClient))
	}
	client, err := gl.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}

	return &GitLabSourceRepository{
		token:   token,
		apiURL:  apiURL,
		webHost: strings.ToLower(parsed.Host),
		client:  client,
		raw:     raw,
	}, nil
}

func (p *GitLabSourceRepository) Name() string       { return sourceName }
func (p *GitLabSourceRepository) APIBaseURL() string { return p.apiURL }

// MatchesURL accepts gitlab.com and the host of the configured API.
func (p *GitLabSourceRepository) MatchesURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	return host == "gitlab.com" || host == p.webHost
}

// GetRepository fetches the project behind a GitLab web URL.
func (p *GitLabSourceRepository) GetRepository(ctx context.Context, repoURL string) (entities.Repository, error) {
	projectPath, err := ParseProjectPath(repoURL)
	if err != nil {
		return entities.Repository{}, &entities.FetchError{URL: repoURL, Err: err}
	}

	project, resp, err := p.client.Projects.GetProject(projectPath, nil, gl.WithContext(ctx))
	if err != nil {
		return entities.Repository{}, toFetchError(repoURL, resp, err)
	}
	return toRepository(project), nil
}

// DiscoverRepositories lists all projects in a GitLab group,
// falling back to the projects of a user.
func (p *GitLabSourceRepository) DiscoverRepositories(
	ctx context.Context,
	group string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: perPage},
		IncludeSubGroups: gl.Ptr(true),
	}

	for {
		projects, resp, err := p.client.Groups.ListGroupProjects(
			group, opts, gl.WithContext(ctx),
		)
		if err != nil {
			fetchErr := toFetchError(group, resp, fmt.Errorf("failed to list projects for %q: %w", group, err))
			// only a missing group on the first page means group is a user
			if opts.Page == 0 && entities.StatusOf(fetchErr) == http.StatusNotFound {
				return p.discoverUserProjects(ctx, group)
			}
			return allRepos, fetchErr
		}

		for _, proj := range projects {
			allRepos = append(allRepos, toRepository(proj))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func (p *GitLabSourceRepository) discoverUserProjects(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gl.ListProjectsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}

	for {
		projects, resp, err := p.client.Projects.ListUserProjects(
			user, opts, gl.WithContext(ctx),
		)
		if err != nil {
			return allRepos, toFetchError(user, resp, fmt.Errorf("failed to list projects for %q: %w", user, err))
		}

		for _, proj := range projects {
			allRepos = append(allRepos, toRepository(proj))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

// GetOrganization fetches a group, falling back to a user looked up by username.
func (p *GitLabSourceRepository) GetOrganization(ctx context.Context, name string) (entities.Organisation, error) {
	group, resp, err := p.client.Groups.GetGroup(name, nil, gl.WithContext(ctx))
	if err == nil {
		return entities.Organisation{
			Name:        group.Name,
			Type:        entities.OrganisationTypeOrganization,
			Description: group.Description,
			Logo:        optional(group.AvatarURL),
			GitLab:      group.WebURL,
		}, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return entities.Organisation{}, toFetchError(name, resp, err)
	}

	users, resp, err := p.client.Users.ListUsers(
		&gl.ListUsersOptions{Username: gl.Ptr(name)}, gl.WithContext(ctx),
	)
	if err != nil {
		return entities.Organisation{}, toFetchError(name, resp, err)
	}
	if len(users) == 0 {
		return entities.Organisation{}, &entities.FetchError{
			URL:        p.apiURL + "/users?username=" + url.QueryEscape(name),
			StatusCode: http.StatusNotFound,
			Err:        entities.ErrOrganisationNotFound,
		}
	}

	user := users[0]
	return entities.Organisation{
		Name:        user.Username,
		Type:        entities.OrganisationTypeUser,
		Description: user.Bio,
		Website:     user.WebsiteURL,
		Email:       user.PublicEmail,
		Logo:        optional(user.AvatarURL),
		GitLab:      user.WebURL,
	}, nil
}

// GetFile reads a file through the repository files API. The body keeps its base64 encoding.
func (p *GitLabSourceRepository) GetFile(
	ctx context.Context,
	repo entities.Repository,
	filePath, ref string,
) (entities.RemoteFile, error) {
	if ref == "" {
		ref = repo.DefaultBranch
	}
	if ref == "" {
		ref = defaultRef
	}

	location := fmt.Sprintf(
		"%s/projects/%s/repository/files/%s?ref=%s",
		p.apiURL, url.PathEscape(projectID(repo)), url.PathEscape(filePath), url.QueryEscape(ref),
	)
	file, resp, err := p.client.RepositoryFiles.GetFile(
		projectID(repo), filePath, &gl.GetFileOptions{Ref: gl.Ptr(ref)}, gl.WithContext(ctx),
	)
	if err != nil {
		return entities.RemoteFile{}, toFetchError(location, resp, err)
	}

	remote := entities.RemoteFile{
		URL:    webFileURL(repo, "blob", ref, filePath),
		Path:   file.FilePath,
		Ref:    ref,
		Body:   []byte(file.Content),
		BlobID: file.BlobID,
	}
	if file.Encoding == encodingBase64 {
		remote.Envelope = entities.EnvelopeBase64
	}
	return remote, nil
}

// GetRawFile reads a file as plain bytes at the given branch.
func (p *GitLabSourceRepository) GetRawFile(
	ctx context.Context,
	repo entities.Repository,
	branch, filePath string,
) (entities.RemoteFile, error) {
	location := fmt.Sprintf(
		"%s/projects/%s/repository/files/%s/raw?ref=%s",
		p.apiURL, url.PathEscape(projectID(repo)), url.PathEscape(filePath), url.QueryEscape(branch),
	)
	body, resp, err := p.client.RepositoryFiles.GetRawFile(
		projectID(repo), filePath, &gl.GetRawFileOptions{Ref: gl.Ptr(branch)}, gl.WithContext(ctx),
	)
	if err != nil {
		return entities.RemoteFile{}, toFetchError(location, resp, err)
	}

	return entities.RemoteFile{
		URL:         webFileURL(repo, "raw", branch, filePath),
		Path:        filePath,
		Ref:         branch,
		Body:        body,
		Envelope:    entities.EnvelopeNone,
		DownloadURL: location,
	}, nil
}

// Fetch performs a GET on an absolute URL.
func (p *GitLabSourceRepository) Fetch(ctx context.Context, rawURL string) (entities.RemoteFile, error) {
	body, err := p.raw.Get(ctx, rawURL)
	if err != nil {
		return entities.RemoteFile{}, err
	}
	return entities.RemoteFile{URL: rawURL, Body: body, DownloadURL: rawURL}, nil
}

// SearchPubliccode runs a blob search for publiccode files and resolves the matching projects.
func (p *GitLabSourceRepository) SearchPubliccode(ctx context.Context) ([]entities.SearchHit, error) {
	if p.token == "" {
		return nil, fmt.Errorf("%w: gitlab blob search requires a token", entities.ErrMissingCredentials)
	}

	var hits []entities.SearchHit
	projects := make(map[string]entities.Repository)
	opts := &gl.SearchOptions{ListOptions: gl.ListOptions{PerPage: perPage}}

	for {
		blobs, resp, err := p.client.Search.Blobs(searchQuery, opts, gl.WithContext(ctx))
		if err != nil {
			return hits, toFetchError("search/blobs", resp, err)
		}

		for _, blob := range blobs {
			if !isPubliccodePath(blob.Path) {
				continue
			}

			id := fmt.Sprint(blob.ProjectID)
			repo, known := projects[id]
			if !known {
				project, projectResp, projectErr := p.client.Projects.GetProject(id, nil, gl.WithContext(ctx))
				if projectErr != nil {
					logger.Warnf("[%s] Skipping search hit in project %s: %v", sourceName, id,
						toFetchError(id, projectResp, projectErr))
					continue
				}
				repo = toRepository(project)
				projects[id] = repo
			}

			hits = append(hits, entities.SearchHit{Repository: repo, Path: blob.Path})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return hits, nil
}

// ParseProjectPath extracts the namespaced project path from a GitLab web URL.
func ParseProjectPath(repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("invalid project url %q: %w", repoURL, err)
	}

	projectPath := parsed.Path
	if idx := strings.Index(projectPath, routeSeparator); idx >= 0 {
		projectPath = projectPath[:idx]
	}
	projectPath = strings.TrimSuffix(strings.Trim(projectPath, "/"), ".git")
	if !strings.Contains(projectPath, "/") {
		return "", fmt.Errorf("invalid project url %q: expected /{namespace}/{project}", repoURL)
	}
	return projectPath, nil
}

func toRepository(project *gl.Project) entities.Repository {
	repo := entities.Repository{
		Source:        sourceName,
		URL:           project.WebURL,
		Name:          project.Path,
		ProjectID:     fmt.Sprint(project.ID),
		Description:   project.Description,
		DefaultBranch: project.DefaultBranch,
		Archived:      project.Archived,
		Stars:         int(project.StarCount),
		AvatarURL:     project.AvatarURL,
	}
	if project.Namespace != nil {
		repo.Owner = project.Namespace.FullPath
	} else if idx := strings.LastIndex(project.PathWithNamespace, "/"); idx >= 0 {
		repo.Owner = project.PathWithNamespace[:idx]
	}
	if project.ForkedFromProject != nil {
		repo.ForkedFrom = project.ForkedFromProject.WebURL
	}
	return repo
}

// projectID prefers the numeric project ID and falls back to the namespaced path.
func projectID(repo entities.Repository) string {
	if repo.ProjectID != "" && repo.ProjectID != "0" {
		return repo.ProjectID
	}
	return repo.FullName()
}

func webFileURL(repo entities.Repository, kind, ref, filePath string) string {
	return fmt.Sprintf("%s/-/%s/%s/%s", strings.TrimSuffix(repo.URL, "/"), kind, ref, strings.TrimPrefix(filePath, "/"))
}

func isPubliccodePath(filePath string) bool {
	base := path.Base(filePath)
	return base == publiccodeStem+".yaml" || base == publiccodeStem+".yml"
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// toFetchError attaches the HTTP status of resp to err.
func toFetchError(location string, resp *gl.Response, err error) error {
	fetchErr := &entities.FetchError{URL: location, Err: err}
	if resp != nil && resp.Response != nil {
		fetchErr.StatusCode = resp.StatusCode
	}
	return fetchErr
}
