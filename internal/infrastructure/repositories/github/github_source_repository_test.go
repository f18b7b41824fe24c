//go:build unit

package github_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/github"
)

// newGitHubServer answers each request path in routes with its JSON body and 404 otherwise.
func newGitHubServer(t *testing.T, routes map[string]string) (*httptest.Server, repositories.SourceRepository) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	source, err := github.NewGitHubSourceRepository(entities.SourceSettings{
		Token:  "test-token",
		APIURL: server.URL + "/",
		RawURL: server.URL + "/raw",
	}, server.Client())
	require.NoError(t, err)
	return server, source
}

func TestGitHubSourceRepository(t *testing.T) {
	t.Parallel()

	t.Run("should map archived forks from the repository API", func(t *testing.T) {
		// given
		_, source := newGitHubServer(t, map[string]string{
			"/repos/org/repo": `{"name":"repo","full_name":"org/repo","html_url":"https://github.com/org/repo",
				"default_branch":"develop","archived":true,"fork":true,"stargazers_count":7,
				"parent":{"html_url":"https://github.com/up/repo"},"owner":{"login":"org"}}`,
		})

		// when
		repo, err := source.GetRepository(context.Background(), "https://github.com/org/repo.git")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.SourceGitHub, repo.Source)
		assert.Equal(t, "org", repo.Owner)
		assert.Equal(t, "develop", repo.DefaultBranch)
		assert.True(t, repo.Archived)
		assert.Equal(t, "https://github.com/up/repo", repo.ForkedFrom)
		assert.Equal(t, 7, repo.Stars)
	})

	t.Run("should report a missing repository with status 404", func(t *testing.T) {
		// given
		_, source := newGitHubServer(t, map[string]string{})

		// when
		_, err := source.GetRepository(context.Background(), "https://github.com/org/missing")

		// then
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, entities.StatusOf(err))
	})

	t.Run("should keep the base64 envelope of the contents API", func(t *testing.T) {
		// given
		encoded := base64.StdEncoding.EncodeToString([]byte("name: Foo\n"))
		_, source := newGitHubServer(t, map[string]string{
			"/repos/org/repo/contents/publiccode.yml": `{"type":"file","encoding":"base64","content":"` + encoded + `",
				"path":"publiccode.yml","html_url":"https://github.com/org/repo/blob/main/publiccode.yml",
				"download_url":"https://raw.githubusercontent.com/org/repo/main/publiccode.yml"}`,
		})
		repo := entities.Repository{Owner: "org", Name: "repo"}

		// when
		file, err := source.GetFile(context.Background(), repo, "publiccode.yml", "")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.EnvelopeBase64, file.Envelope)
		assert.Equal(t, encoded, string(file.Body))
		assert.Equal(t, "https://github.com/org/repo/blob/main/publiccode.yml", file.URL)
		assert.Equal(t, "https://raw.githubusercontent.com/org/repo/main/publiccode.yml", file.DownloadURL)
	})

	t.Run("should read raw files from the raw content host", func(t *testing.T) {
		// given
		server, source := newGitHubServer(t, map[string]string{
			"/raw/org/repo/main/publiccode.yaml": "name: Foo\n",
		})
		repo := entities.Repository{Owner: "org", Name: "repo"}

		// when
		file, err := source.GetRawFile(context.Background(), repo, "main", "publiccode.yaml")

		// then
		require.NoError(t, err)
		assert.Equal(t, "name: Foo\n", string(file.Body))
		assert.Equal(t, entities.EnvelopeNone, file.Envelope)
		assert.Equal(t, server.URL+"/raw/org/repo/main/publiccode.yaml", file.URL)
	})

	t.Run("should fall back to the user profile when no organization exists", func(t *testing.T) {
		// given
		_, source := newGitHubServer(t, map[string]string{
			"/users/jan": `{"login":"jan","type":"User","html_url":"https://github.com/jan","bio":"developer"}`,
		})

		// when
		organisation, err := source.GetOrganization(context.Background(), "jan")

		// then
		require.NoError(t, err)
		assert.Equal(t, "jan", organisation.Name)
		assert.Equal(t, entities.OrganisationTypeUser, organisation.Type)
		assert.Equal(t, "https://github.com/jan", organisation.GitHub)
		assert.Nil(t, organisation.Logo)
	})

	t.Run("should map organization profiles", func(t *testing.T) {
		// given
		_, source := newGitHubServer(t, map[string]string{
			"/orgs/utrecht": `{"login":"utrecht","blog":"https://utrecht.nl","html_url":"https://github.com/utrecht",
				"avatar_url":"https://avatars.githubusercontent.com/u/1"}`,
		})

		// when
		organisation, err := source.GetOrganization(context.Background(), "utrecht")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.OrganisationTypeOrganization, organisation.Type)
		assert.Equal(t, "https://utrecht.nl", organisation.Website)
		require.NotNil(t, organisation.Logo)
	})

	t.Run("should list organization repositories and fall back to user repositories", func(t *testing.T) {
		// given
		_, source := newGitHubServer(t, map[string]string{
			"/orgs/utrecht/repos": `[{"name":"a","html_url":"https://github.com/utrecht/a","owner":{"login":"utrecht"}}]`,
			"/users/jan/repos":    `[{"name":"b","html_url":"https://github.com/jan/b","owner":{"login":"jan"}}]`,
		})

		// when
		orgRepos, orgErr := source.DiscoverRepositories(context.Background(), "utrecht")
		userRepos, userErr := source.DiscoverRepositories(context.Background(), "jan")

		// then
		require.NoError(t, orgErr)
		require.NoError(t, userErr)
		require.Len(t, orgRepos, 1)
		require.Len(t, userRepos, 1)
		assert.Equal(t, "https://github.com/utrecht/a", orgRepos[0].URL)
		assert.Equal(t, "jan", userRepos[0].Owner)
	})

	t.Run("should not fall back to user repositories when the organization listing is forbidden", func(t *testing.T) {
		// given
		userCalls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/users/utrecht/repos" {
				userCalls++
				_, _ = w.Write([]byte(`[]`))
				return
			}
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Forbidden"}`))
		}))
		t.Cleanup(server.Close)
		source, err := github.NewGitHubSourceRepository(entities.SourceSettings{
			Token:  "test-token",
			APIURL: server.URL + "/",
		}, server.Client())
		require.NoError(t, err)

		// when
		repos, err := source.DiscoverRepositories(context.Background(), "utrecht")

		// then
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, entities.StatusOf(err))
		assert.Empty(t, repos)
		assert.Zero(t, userCalls)
	})

	t.Run("should return the repositories of earlier pages when a later page fails", func(t *testing.T) {
		// given
		var serverURL string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path != "/orgs/utrecht/repos" || r.URL.Query().Get("page") == "2" {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"message":"Bad Gateway"}`))
				return
			}
			w.Header().Set("Link", `<`+serverURL+`/orgs/utrecht/repos?page=2>; rel="next"`)
			_, _ = w.Write([]byte(`[{"name":"a","html_url":"https://github.com/utrecht/a","owner":{"login":"utrecht"}}]`))
		}))
		serverURL = server.URL
		t.Cleanup(server.Close)
		source, err := github.NewGitHubSourceRepository(entities.SourceSettings{
			Token:  "test-token",
			APIURL: server.URL + "/",
		}, server.Client())
		require.NoError(t, err)

		// when
		repos, err := source.DiscoverRepositories(context.Background(), "utrecht")

		// then
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, entities.StatusOf(err))
		require.Len(t, repos, 1)
		assert.Equal(t, "https://github.com/utrecht/a", repos[0].URL)
	})

	t.Run("should send the configured token as given", func(t *testing.T) {
		// given
		headers := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"repo","html_url":"https://github.com/org/repo","owner":{"login":"org"}}`))
		}))
		t.Cleanup(server.Close)
		source, err := github.NewGitHubSourceRepository(entities.SourceSettings{
			Token:  "${NOT_A_PLACEHOLDER_HERE}",
			APIURL: server.URL + "/",
		}, server.Client())
		require.NoError(t, err)

		// when
		_, err = source.GetRepository(context.Background(), "https://github.com/org/repo")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bearer ${NOT_A_PLACEHOLDER_HERE}", <-headers)
	})

	t.Run("should keep only publiccode files from the code search", func(t *testing.T) {
		// given
		_, source := newGitHubServer(t, map[string]string{
			"/search/code": `{"total_count":2,"items":[
				{"path":"docs/publiccode.yml","repository":{"name":"repo","full_name":"org/repo","html_url":"https://github.com/org/repo"}},
				{"path":"publiccode-template.md","repository":{"name":"other","full_name":"org/other"}}]}`,
		})

		// when
		hits, err := source.SearchPubliccode(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "docs/publiccode.yml", hits[0].Path)
		assert.Equal(t, "org", hits[0].Repository.Owner)
	})

	t.Run("should require a token for the code search", func(t *testing.T) {
		// given
		source, err := github.NewGitHubSourceRepository(entities.SourceSettings{
			APIURL: "https://api.github.com/",
			RawURL: "https://raw.githubusercontent.com",
		}, nil)
		require.NoError(t, err)

		// when
		_, searchErr := source.SearchPubliccode(context.Background())

		// then
		require.ErrorIs(t, searchErr, entities.ErrMissingCredentials)
	})
}

func TestParseRepositoryURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{name: "should parse a plain URL", url: "https://github.com/org/repo", owner: "org", repo: "repo"},
		{name: "should strip the .git suffix", url: "https://github.com/org/repo.git", owner: "org", repo: "repo"},
		{name: "should ignore deeper paths", url: "https://github.com/org/repo/tree/main", owner: "org", repo: "repo"},
		{name: "should reject an organization URL", url: "https://github.com/org", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			url := tt.url

			// when
			owner, repo, err := github.ParseRepositoryURL(url)

			// then
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}
