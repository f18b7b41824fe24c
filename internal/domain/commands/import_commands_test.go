//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/opencatalogi/test/infrastructure/repositorydoubles"
)

func TestImportDeveloperOverheidCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should sync every listed repository and skip failures", func(t *testing.T) {
		// given
		f := newFixture(t)
		f.github.Repositories[repoURL] = entitybuilders.NewRepositoryBuilder().BuildRepository()
		catalog := &doubles.StubDeveloperOverheidRepository{Entries: []entities.CatalogEntry{
			{Source: entities.SourceGitHub, RepositoryURL: repoURL},
			{Source: entities.SourceGitHub, RepositoryURL: "https://github.com/org/gone"},
		}}
		cmd := commands.NewImportDeveloperOverheidCommand(catalog, f.sync, f.settings)

		// when
		synced, err := cmd.Execute(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, synced)
		assert.Equal(t, 1, f.store.Count(entities.KindRepository))
	})

	t.Run("should flush after every batch and once at the end", func(t *testing.T) {
		// given
		f := newFixture(t)
		f.settings.BatchSize = 2
		entries := make([]entities.CatalogEntry, 0, 3)
		for _, name := range []string{"a", "b", "c"} {
			repo := entitybuilders.NewRepositoryBuilder().WithName(name).BuildRepository()
			f.github.Repositories[repo.URL] = repo
			entries = append(entries, entities.CatalogEntry{RepositoryURL: repo.URL})
		}
		catalog := &doubles.StubDeveloperOverheidRepository{Entries: entries}
		cmd := commands.NewImportDeveloperOverheidCommand(catalog, f.sync, f.settings)

		// when
		synced, err := cmd.Execute(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, synced)
		assert.Equal(t, 2, f.store.FlushCount)
	})

	t.Run("should sync the entries listed before the catalog failed and report the failure", func(t *testing.T) {
		// given
		f := newFixture(t)
		f.github.Repositories[repoURL] = entitybuilders.NewRepositoryBuilder().BuildRepository()
		catalog := &doubles.StubDeveloperOverheidRepository{
			Entries: []entities.CatalogEntry{{Source: entities.SourceGitHub, RepositoryURL: repoURL}},
			Err:     assert.AnError,
		}
		cmd := commands.NewImportDeveloperOverheidCommand(catalog, f.sync, f.settings)

		// when
		synced, err := cmd.Execute(context.Background())

		// then
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, synced)
		assert.Equal(t, 1, f.store.Count(entities.KindRepository))
		assert.Equal(t, 1, f.store.FlushCount)
	})

	t.Run("should fail when the catalog cannot be listed", func(t *testing.T) {
		// given
		f := newFixture(t)
		catalog := &doubles.StubDeveloperOverheidRepository{Err: assert.AnError}
		cmd := commands.NewImportDeveloperOverheidCommand(catalog, f.sync, f.settings)

		// when
		_, err := cmd.Execute(context.Background())

		// then
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestImportComponentenCatalogusCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should create one application per product and link its components", func(t *testing.T) {
		// given
		f := newFixture(t)
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()
		f.github.Repositories[repoURL] = repo
		f.rawPubliccode(repo, minimalPubliccode("Signalen")+"applicationSuite: Signalen\n")
		catalog := &doubles.StubComponentenCatalogusRepository{Products: []entities.CatalogProduct{
			{Name: "Signalen", Summary: "Meldingen", RepositoryURLs: []string{repoURL}},
			{Summary: "nameless"},
		}}
		cmd := commands.NewImportComponentenCatalogusCommand(catalog, f.sync, f.settings)

		// when
		imported, err := cmd.Execute(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, imported)
		assert.Equal(t, 1, f.store.Count(entities.KindApplication))

		record, err := f.store.FindByKey(context.Background(), entities.KindApplication, "Signalen")
		require.NoError(t, err)
		var application entities.Application
		require.NoError(t, record.Decode(&application))
		assert.Equal(t, "Meldingen", application.Summary)
		require.Len(t, application.Components, 1)
		assert.Equal(t, "Signalen", loadComponent(t, f, application.Components[0]).Name)
	})

	t.Run("should import the products listed before the catalog failed and report the failure", func(t *testing.T) {
		// given
		f := newFixture(t)
		catalog := &doubles.StubComponentenCatalogusRepository{
			Products: []entities.CatalogProduct{{Name: "Signalen", Summary: "Meldingen"}},
			Err:      assert.AnError,
		}
		cmd := commands.NewImportComponentenCatalogusCommand(catalog, f.sync, f.settings)

		// when
		imported, err := cmd.Execute(context.Background())

		// then
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, imported)
		assert.Equal(t, 1, f.store.Count(entities.KindApplication))
	})
}
