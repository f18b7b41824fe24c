//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

var errNotConfigured = errors.New("not configured in spy")

// SpySourceRepository implements repositories.SourceRepository as a configurable spy.
// Unconfigured lookups fail with a 404 *entities.FetchError.
type SpySourceRepository struct {
	// --- identity ---
	SourceName string
	Host       string
	APIURL     string

	// --- GetRepository, keyed by URL ---
	Repositories map[string]entities.Repository

	// --- DiscoverRepositories ---
	Discovered  []entities.Repository
	DiscoverErr error

	// --- GetOrganization, keyed by name ---
	Organisations map[string]entities.Organisation

	// --- GetFile, keyed by FileKey ---
	Files map[string]entities.RemoteFile

	// --- GetRawFile, keyed by RawKey ---
	RawFiles map[string]entities.RemoteFile

	// --- Fetch, keyed by URL ---
	Fetched map[string]entities.RemoteFile

	// --- SearchPubliccode ---
	SearchHits []entities.SearchHit
	SearchErr  error

	// --- any call: status to fail with, keyed by the call log entry ---
	Failures map[string]int

	// spy: every call in order, e.g. "raw org/repo main/publiccode.yaml"
	Calls []string
}

var _ repositories.SourceRepository = (*SpySourceRepository)(nil)

// FileKey is the Files key of a contents API lookup. An empty ref means the default branch.
func FileKey(fullName, path, ref string) string {
	return fullName + ":" + path + "@" + ref
}

// RawKey is the RawFiles key of a raw-content lookup.
func RawKey(fullName, branch, path string) string {
	return fullName + ":" + branch + "/" + path
}

// NewSpySourceRepository creates an empty spy for the given source name and web host.
func NewSpySourceRepository(name, host string) *SpySourceRepository {
	return &SpySourceRepository{
		SourceName:    name,
		Host:          host,
		APIURL:        "https://api." + host,
		Repositories:  make(map[string]entities.Repository),
		Organisations: make(map[string]entities.Organisation),
		Files:         make(map[string]entities.RemoteFile),
		RawFiles:      make(map[string]entities.RemoteFile),
		Fetched:       make(map[string]entities.RemoteFile),
		Failures:      make(map[string]int),
	}
}

func (p *SpySourceRepository) Name() string       { return p.SourceName }
func (p *SpySourceRepository) APIBaseURL() string { return p.APIURL }

func (p *SpySourceRepository) MatchesURL(rawURL string) bool {
	return p.Host != "" && strings.Contains(rawURL, "://"+p.Host+"/")
}

func (p *SpySourceRepository) GetRepository(_ context.Context, repoURL string) (entities.Repository, error) {
	call := "repo " + repoURL
	if err := p.record(call, repoURL); err != nil {
		return entities.Repository{}, err
	}
	repo, ok := p.Repositories[repoURL]
	if !ok {
		return entities.Repository{}, notFound(repoURL)
	}
	return repo, nil
}

func (p *SpySourceRepository) DiscoverRepositories(_ context.Context, org string) ([]entities.Repository, error) {
	p.Calls = append(p.Calls, "discover "+org)
	return p.Discovered, p.DiscoverErr
}

func (p *SpySourceRepository) GetOrganization(_ context.Context, name string) (entities.Organisation, error) {
	call := "org " + name
	if err := p.record(call, name); err != nil {
		return entities.Organisation{}, err
	}
	organisation, ok := p.Organisations[name]
	if !ok {
		return entities.Organisation{}, notFound(name)
	}
	return organisation, nil
}

func (p *SpySourceRepository) GetFile(
	_ context.Context,
	repo entities.Repository,
	path, ref string,
) (entities.RemoteFile, error) {
	call := "api " + repo.FullName() + " " + path + "@" + ref
	if err := p.record(call, path); err != nil {
		return entities.RemoteFile{}, err
	}
	file, ok := p.Files[FileKey(repo.FullName(), path, ref)]
	if !ok {
		return entities.RemoteFile{}, notFound(path)
	}
	return file, nil
}

func (p *SpySourceRepository) GetRawFile(
	_ context.Context,
	repo entities.Repository,
	branch, path string,
) (entities.RemoteFile, error) {
	call := "raw " + repo.FullName() + " " + branch + "/" + path
	if err := p.record(call, path); err != nil {
		return entities.RemoteFile{}, err
	}
	file, ok := p.RawFiles[RawKey(repo.FullName(), branch, path)]
	if !ok {
		return entities.RemoteFile{}, notFound(path)
	}
	return file, nil
}

func (p *SpySourceRepository) Fetch(_ context.Context, rawURL string) (entities.RemoteFile, error) {
	call := "fetch " + rawURL
	if err := p.record(call, rawURL); err != nil {
		return entities.RemoteFile{}, err
	}
	file, ok := p.Fetched[rawURL]
	if !ok {
		return entities.RemoteFile{}, notFound(rawURL)
	}
	return file, nil
}

func (p *SpySourceRepository) SearchPubliccode(_ context.Context) ([]entities.SearchHit, error) {
	p.Calls = append(p.Calls, "search")
	return p.SearchHits, p.SearchErr
}

// record logs the call and returns the configured failure for it, if any.
func (p *SpySourceRepository) record(call, location string) error {
	p.Calls = append(p.Calls, call)
	if status, ok := p.Failures[call]; ok {
		return &entities.FetchError{URL: location, StatusCode: status, Err: errNotConfigured}
	}
	return nil
}

func notFound(location string) error {
	return &entities.FetchError{URL: location, StatusCode: http.StatusNotFound, Err: errNotConfigured}
}
