//go:build unit

package commands_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/opencatalogi/test/infrastructure/repositorydoubles"
)

func TestLogoResolverResolve(t *testing.T) {
	t.Parallel()

	const (
		rawLogo      = "https://raw.githubusercontent.com/org/repo/main/logo.svg"
		downloadLogo = "https://raw.githubusercontent.com/org/repo/main/docs/logo.png"
	)

	tests := []struct {
		name     string
		logo     string
		arrange  func(f *fixture)
		expected *string
	}{
		{
			name:     "should keep github avatars unchanged",
			logo:     "https://avatars.githubusercontent.com/u/1234?v=4",
			expected: ptr("https://avatars.githubusercontent.com/u/1234?v=4"),
		},
		{
			name:     "should keep gravatar images unchanged",
			logo:     "https://www.gravatar.com/avatar/abc",
			expected: ptr("https://www.gravatar.com/avatar/abc"),
		},
		{
			name: "should keep a reachable raw content URL unchanged",
			logo: rawLogo,
			arrange: func(f *fixture) {
				f.github.Fetched[rawLogo] = entities.RemoteFile{Body: []byte("<svg/>")}
			},
			expected: ptr(rawLogo),
		},
		{
			name: "should rewrite a github blob URL to its download URL",
			logo: "https://github.com/org/repo/blob/main/docs/logo.png",
			arrange: func(f *fixture) {
				f.github.Files[doubles.FileKey("org/repo", "docs/logo.png", "main")] = entities.RemoteFile{
					DownloadURL: downloadLogo,
				}
			},
			expected: ptr(downloadLogo),
		},
		{
			name: "should resolve a relative path through the contents API",
			logo: "/docs/logo.png",
			arrange: func(f *fixture) {
				f.github.Files[doubles.FileKey("org/repo", "docs/logo.png", "")] = entities.RemoteFile{
					DownloadURL: downloadLogo,
				}
			},
			expected: ptr(downloadLogo),
		},
		{
			name: "should keep the original reference when rate limited",
			logo: rawLogo,
			arrange: func(f *fixture) {
				f.github.Failures["fetch "+rawLogo] = http.StatusForbidden
			},
			expected: ptr(rawLogo),
		},
		{
			name:     "should drop a logo that does not exist",
			logo:     "./missing.png",
			expected: nil,
		},
		{
			name: "should drop a logo when credentials are rejected",
			logo: rawLogo,
			arrange: func(f *fixture) {
				f.github.Failures["fetch "+rawLogo] = http.StatusUnauthorized
			},
			expected: nil,
		},
		{
			name:     "should drop a logo on an unsupported host",
			logo:     "https://example.org/logo.png",
			expected: nil,
		},
		{
			name:     "should keep gitlab uploads unchanged",
			logo:     "https://gitlab.com/group/project/uploads/abc/logo.png",
			expected: ptr("https://gitlab.com/group/project/uploads/abc/logo.png"),
		},
		{
			name: "should rewrite a gitlab blob URL to the blob raw endpoint",
			logo: "https://gitlab.com/group/sub/project/-/blob/main/logo.png",
			arrange: func(f *fixture) {
				f.gitlab.Files[doubles.FileKey("group/sub/project", "logo.png", "main")] = entities.RemoteFile{
					BlobID: "abc123",
				}
			},
			expected: ptr("https://api.gitlab.com/projects/group%2Fsub%2Fproject/repository/blobs/abc123/raw"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			if tt.arrange != nil {
				tt.arrange(f)
			}
			repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

			// when
			resolved := f.logos.Resolve(context.Background(), tt.logo, repo)

			// then
			assert.Equal(t, tt.expected, resolved)
		})
	}

	t.Run("should memoise successful resolutions", func(t *testing.T) {
		// given
		f := newFixture(t)
		f.github.Fetched[rawLogo] = entities.RemoteFile{Body: []byte("<svg/>")}
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		first := f.logos.Resolve(context.Background(), rawLogo, repo)
		second := f.logos.Resolve(context.Background(), rawLogo, repo)

		// then
		require.NotNil(t, first)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"fetch " + rawLogo}, f.github.Calls)
	})

	t.Run("should retry a rate limited logo on the next call", func(t *testing.T) {
		// given
		f := newFixture(t)
		f.github.Failures["fetch "+rawLogo] = http.StatusForbidden
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		f.logos.Resolve(context.Background(), rawLogo, repo)
		f.logos.Resolve(context.Background(), rawLogo, repo)

		// then
		assert.Len(t, f.github.Calls, 2)
	})

	t.Run("should return nil for an empty reference", func(t *testing.T) {
		// given
		f := newFixture(t)
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		resolved := f.logos.Resolve(context.Background(), "  ", repo)

		// then
		assert.Nil(t, resolved)
		assert.Empty(t, f.github.Calls)
	})
}

func ptr(value string) *string {
	return &value
}
