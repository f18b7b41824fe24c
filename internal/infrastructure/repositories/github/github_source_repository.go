package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/rawhttp"
)

const (
	sourceName      = entities.SourceGitHub
	perPage         = 100
	searchQuery     = "filename:publiccode"
	publiccodeStem  = "publiccode"
	webHost         = "github.com"
	encodingBase64  = "base64"
	encodingNone    = "none"
	accountTypeUser = "User"
)

var errNotAFile = errors.New("path is not a file")

// GitHubSourceRepository implements repositories.SourceRepository for GitHub.
type GitHubSourceRepository struct {
	token  string
	client *gh.Client
	raw    *rawhttp.Client
	rawURL string
}

// NewGitHubSourceRepository creates a GitHub source from its settings.
// A nil httpClient uses a pooled cleanhttp client.
func NewGitHubSourceRepository(
	settings entities.SourceSettings,
	httpClient *http.Client,
) (repositories.SourceRepository, error) {
	// tokens arrive resolved from entities.ParseSettings
	token := settings.Token
	raw := rawhttp.NewWithHTTPClient(httpClient, nil)
	if token != "" {
		raw = rawhttp.NewWithHTTPClient(httpClient, map[string]string{"Authorization": "token " + token})
	}

	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	baseURL, err := url.Parse(strings.TrimSuffix(settings.APIURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid github api url %q: %w", settings.APIURL, err)
	}
	client.BaseURL = baseURL

	return &GitHubSourceRepository{
		token:  token,
		client: client,
		raw:    raw,
		rawURL: strings.TrimSuffix(settings.RawURL, "/"),
	}, nil
}

func (p *GitHubSourceRepository) Name() string { return sourceName }

func (p *GitHubSourceRepository) APIBaseURL() string {
	return strings.TrimSuffix(p.client.BaseURL.String(), "/")
}

func (p *GitHubSourceRepository) MatchesURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	return host == webHost
}

// GetRepository fetches the repository behind a github.com URL.
func (p *GitHubSourceRepository) GetRepository(ctx context.Context, repoURL string) (entities.Repository, error) {
	owner, name, err := ParseRepositoryURL(repoURL)
	if err != nil {
		return entities.Repository{}, &entities.FetchError{URL: repoURL, Err: err}
	}

	repo, resp, err := p.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return entities.Repository{}, toFetchError(repoURL, resp, err)
	}
	return toRepository(repo), nil
}

// DiscoverRepositories lists all repositories in a GitHub
// organization or user account.
func (p *GitHubSourceRepository) DiscoverRepositories(
	ctx context.Context,
	org string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		repos, resp, err := p.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			fetchErr := toFetchError(org, resp, fmt.Errorf("failed to list repos for %q: %w", org, err))
			// only a missing organization on the first page means org is a user
			if opts.Page == 0 && entities.StatusOf(fetchErr) == http.StatusNotFound {
				return p.discoverUserRepos(ctx, org)
			}
			return allRepos, fetchErr
		}

		for _, r := range repos {
			allRepos = append(allRepos, toRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func (p *GitHubSourceRepository) discoverUserRepos(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
		Type:        "owner",
	}

	for {
		repos, resp, err := p.client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return allRepos, toFetchError(user, resp, fmt.Errorf("failed to list repos for %q: %w", user, err))
		}

		for _, r := range repos {
			allRepos = append(allRepos, toRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

// GetOrganization fetches an organization profile, falling back to a user profile.
func (p *GitHubSourceRepository) GetOrganization(ctx context.Context, name string) (entities.Organisation, error) {
	org, resp, err := p.client.Organizations.Get(ctx, name)
	if err == nil {
		return entities.Organisation{
			Name:        org.GetLogin(),
			Type:        entities.OrganisationTypeOrganization,
			Description: org.GetDescription(),
			Website:     org.GetBlog(),
			Email:       org.GetEmail(),
			Logo:        optional(org.GetAvatarURL()),
			GitHub:      org.GetHTMLURL(),
		}, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return entities.Organisation{}, toFetchError(name, resp, err)
	}

	user, resp, err := p.client.Users.Get(ctx, name)
	if err != nil {
		return entities.Organisation{}, toFetchError(name, resp, err)
	}

	orgType := entities.OrganisationTypeOrganization
	if user.GetType() == accountTypeUser {
		orgType = entities.OrganisationTypeUser
	}
	return entities.Organisation{
		Name:        user.GetLogin(),
		Type:        orgType,
		Description: user.GetBio(),
		Website:     user.GetBlog(),
		Email:       user.GetEmail(),
		Logo:        optional(user.GetAvatarURL()),
		GitHub:      user.GetHTMLURL(),
	}, nil
}

// GetFile reads a file through the contents API. The body keeps its base64 encoding.
func (p *GitHubSourceRepository) GetFile(
	ctx context.Context,
	repo entities.Repository,
	filePath, ref string,
) (entities.RemoteFile, error) {
	fileContent, _, resp, err := p.client.Repositories.GetContents(
		ctx, repo.Owner, repo.Name, filePath,
		&gh.RepositoryContentGetOptions{Ref: ref},
	)
	location := fmt.Sprintf("%srepos/%s/%s/contents/%s", p.client.BaseURL, repo.Owner, repo.Name, filePath)
	if err != nil {
		return entities.RemoteFile{}, toFetchError(location, resp, err)
	}
	if fileContent == nil {
		return entities.RemoteFile{}, &entities.FetchError{URL: location, Err: errNotAFile}
	}

	file := entities.RemoteFile{
		URL:         fileContent.GetHTMLURL(),
		Path:        fileContent.GetPath(),
		Ref:         ref,
		DownloadURL: fileContent.GetDownloadURL(),
	}
	if file.URL == "" {
		file.URL = location
	}

	switch {
	case fileContent.GetEncoding() == encodingBase64 && fileContent.Content != nil:
		file.Body = []byte(*fileContent.Content)
		file.Envelope = entities.EnvelopeBase64
	case fileContent.GetEncoding() == encodingNone && file.DownloadURL != "":
		// files above the contents API size limit come without content
		body, fetchErr := p.raw.Get(ctx, file.DownloadURL)
		if fetchErr != nil {
			return entities.RemoteFile{}, fetchErr
		}
		file.Body = body
		file.Envelope = entities.EnvelopeNone
	default:
		content, decodeErr := fileContent.GetContent()
		if decodeErr != nil {
			return entities.RemoteFile{}, &entities.FetchError{URL: location, Err: decodeErr}
		}
		file.Body = []byte(content)
		file.Envelope = entities.EnvelopeNone
	}
	return file, nil
}

// GetRawFile reads {raw}/{owner}/{repo}/{branch}/{path} from the raw content host.
func (p *GitHubSourceRepository) GetRawFile(
	ctx context.Context,
	repo entities.Repository,
	branch, filePath string,
) (entities.RemoteFile, error) {
	location := fmt.Sprintf("%s/%s/%s/%s/%s", p.rawURL, repo.Owner, repo.Name, branch, strings.TrimPrefix(filePath, "/"))
	body, err := p.raw.Get(ctx, location)
	if err != nil {
		return entities.RemoteFile{}, err
	}
	return entities.RemoteFile{
		URL:         location,
		Path:        filePath,
		Ref:         branch,
		Body:        body,
		Envelope:    entities.EnvelopeNone,
		DownloadURL: location,
	}, nil
}

// Fetch performs a GET on an absolute URL.
func (p *GitHubSourceRepository) Fetch(ctx context.Context, rawURL string) (entities.RemoteFile, error) {
	body, err := p.raw.Get(ctx, rawURL)
	if err != nil {
		return entities.RemoteFile{}, err
	}
	return entities.RemoteFile{URL: rawURL, Body: body, DownloadURL: rawURL}, nil
}

// SearchPubliccode runs a code search for publiccode files. Code search requires a token.
func (p *GitHubSourceRepository) SearchPubliccode(ctx context.Context) ([]entities.SearchHit, error) {
	if p.token == "" {
		return nil, fmt.Errorf("%w: github code search requires a token", entities.ErrMissingCredentials)
	}

	var hits []entities.SearchHit
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: perPage}}

	for {
		results, resp, err := p.client.Search.Code(ctx, searchQuery, opts)
		if err != nil {
			return hits, toFetchError("search/code", resp, err)
		}

		for _, result := range results.CodeResults {
			if !isPubliccodePath(result.GetPath()) {
				logger.Debugf("[%s] Ignoring search hit %s", sourceName, result.GetPath())
				continue
			}
			hits = append(hits, entities.SearchHit{
				Repository: toRepository(result.GetRepository()),
				Path:       result.GetPath(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return hits, nil
}

// ParseRepositoryURL extracts owner and name from https://github.com/{owner}/{name}[.git][/...].
func ParseRepositoryURL(repoURL string) (string, string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository url %q: %w", repoURL, err)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("invalid repository url %q: expected /{owner}/{name}", repoURL)
	}
	return segments[0], strings.TrimSuffix(segments[1], ".git"), nil
}

func toRepository(r *gh.Repository) entities.Repository {
	repo := entities.Repository{
		Source:        sourceName,
		URL:           r.GetHTMLURL(),
		Name:          r.GetName(),
		Owner:         r.GetOwner().GetLogin(),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		Archived:      r.GetArchived(),
		Stars:         r.GetStargazersCount(),
		AvatarURL:     r.GetOwner().GetAvatarURL(),
	}
	if r.GetFork() || r.Parent != nil {
		repo.ForkedFrom = r.GetParent().GetHTMLURL()
	}
	if repo.Owner == "" {
		if owner, _, found := strings.Cut(r.GetFullName(), "/"); found {
			repo.Owner = owner
		}
	}
	if repo.URL == "" && repo.Owner != "" {
		repo.URL = fmt.Sprintf("https://%s/%s/%s", webHost, repo.Owner, repo.Name)
	}
	return repo
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
func toFetchError(location string, resp *gh.Response, err error) error {
	fetchErr := &entities.FetchError{URL: location, Err: err}
	if resp != nil && resp.Response != nil {
		fetchErr.StatusCode = resp.StatusCode
		if resp.Request != nil && resp.Request.URL != nil {
			fetchErr.URL = resp.Request.URL.String()
		}
	}
	return fetchErr
}
