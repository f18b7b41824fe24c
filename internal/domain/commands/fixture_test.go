//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	infraRepos "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/opencatalogi/test/infrastructure/repositorydoubles"
)

// fixture wires the commands against spy sources and an in-memory store.
type fixture struct {
	github   *doubles.SpySourceRepository
	gitlab   *doubles.SpySourceRepository
	sources  *infraRepos.SourceRegistry
	store    *doubles.SpyObjectRepository
	settings *entities.Settings
	logos    *commands.LogoResolver
	sync     *commands.SyncRepositoryCommand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	github := doubles.NewSpySourceRepository(entities.SourceGitHub, "github.com")
	gitlab := doubles.NewSpySourceRepository(entities.SourceGitLab, "gitlab.com")
	sources := infraRepos.NewSourceRegistry()
	sources.Register(github)
	sources.Register(gitlab)

	settings := &entities.Settings{BatchSize: 100, LogoCacheSize: 16}
	store := doubles.NewSpyObjectRepository()
	logos, err := commands.NewLogoResolver(sources, settings)
	require.NoError(t, err)
	reconciler := commands.NewReconciler(store, logos)

	return &fixture{
		github:   github,
		gitlab:   gitlab,
		sources:  sources,
		store:    store,
		settings: settings,
		logos:    logos,
		sync:     commands.NewSyncRepositoryCommand(sources, store, reconciler),
	}
}

// rawPubliccode registers a plain publiccode file on the default branch of repo.
func (f *fixture) rawPubliccode(repo entities.Repository, body string) {
	url := "https://raw.githubusercontent.com/" + repo.FullName() + "/" + repo.DefaultBranch + "/publiccode.yaml"
	f.github.RawFiles[doubles.RawKey(repo.FullName(), repo.DefaultBranch, "publiccode.yaml")] = entities.RemoteFile{
		URL:  url,
		Path: "publiccode.yaml",
		Ref:  repo.DefaultBranch,
		Body: []byte(body),
	}
}

func minimalPubliccode(name string) string {
	return "publiccodeYmlVersion: \"0.2\"\nname: " + name + "\ndevelopmentStatus: beta\n"
}

func loadComponent(t *testing.T, f *fixture, id string) entities.Component {
	t.Helper()

	record, err := f.store.Get(context.Background(), entities.KindComponent, id)
	require.NoError(t, err)
	var component entities.Component
	require.NoError(t, record.Decode(&component))
	return component
}
