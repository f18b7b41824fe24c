//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	infraRepos "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/opencatalogi/test/infrastructure/repositorydoubles"
)

func TestSourceRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should get a registered source by name", func(t *testing.T) {
		// given
		registry := infraRepos.NewSourceRegistry()
		registry.Register(doubles.NewSpySourceRepository(entities.SourceGitHub, "github.com"))

		// when
		source, err := registry.Get(entities.SourceGitHub)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.SourceGitHub, source.Name())
	})

	t.Run("should return ErrUnknownSource for an unregistered name", func(t *testing.T) {
		// given
		registry := infraRepos.NewSourceRegistry()

		// when
		_, err := registry.Get("bitbucket")

		// then
		require.ErrorIs(t, err, entities.ErrUnknownSource)
	})

	t.Run("should match a URL to the source hosting it", func(t *testing.T) {
		// given
		registry := infraRepos.NewSourceRegistry()
		registry.Register(doubles.NewSpySourceRepository(entities.SourceGitHub, "github.com"))
		registry.Register(doubles.NewSpySourceRepository(entities.SourceGitLab, "gitlab.com"))

		// when
		source, err := registry.Match("https://gitlab.com/group/project")
		_, missErr := registry.Match("https://bitbucket.org/org/repo")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.SourceGitLab, source.Name())
		require.ErrorIs(t, missErr, entities.ErrUnknownSource)
		assert.Equal(t, []string{entities.SourceGitHub, entities.SourceGitLab}, registry.Names())
	})
}

func TestNewObjectRepository(t *testing.T) {
	t.Parallel()

	t.Run("should default to the memory store", func(t *testing.T) {
		// given
		settings := &entities.Settings{}

		// when
		store, err := infraRepos.NewObjectRepository(settings)

		// then
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("should reject an unknown driver", func(t *testing.T) {
		// given
		settings := &entities.Settings{Store: entities.StoreSettings{Driver: "cassandra"}}

		// when
		_, err := infraRepos.NewObjectRepository(settings)

		// then
		require.Error(t, err)
	})
}
