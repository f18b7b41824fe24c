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
)

func richPubliccode() entities.Publiccode {
	return entities.Publiccode{
		PubliccodeYmlVersion: "0.2",
		Name:                 "Signalen",
		ApplicationSuite:     "Meldingen",
		DevelopmentStatus:    "stable",
		Legal: &entities.PubliccodeLegal{
			License:   "EUPL-1.2",
			RepoOwner: "Gemeente Amsterdam",
		},
		Maintenance: &entities.PubliccodeMaintenance{
			Type: "contract",
			Contractors: []entities.PubliccodeContractor{
				{Name: "Acme", Until: "2030-01-01", Email: "info@acme.example"},
				{Name: "No Date"},
			},
			Contacts: []entities.PubliccodeContact{
				{Name: "Jan", Phone: "0201234567"},
				{Email: "anonymous@example.org"},
			},
		},
	}
}

func TestReconcilerReconcile(t *testing.T) {
	t.Parallel()

	t.Run("should mark the component of an archived repository obsolete", func(t *testing.T) {
		// given
		f := newFixture(t)
		reconciler := commands.NewReconciler(f.store, f.logos)
		repo := entitybuilders.NewRepositoryBuilder().WithArchived(true).BuildRepository()
		repo.ID = "repo-1"
		publiccode := entities.Publiccode{Name: "Foo", DevelopmentStatus: "stable"}

		// when
		component, err := reconciler.Reconcile(context.Background(), &repo, publiccode)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DevelopmentStatusObsolete, component.DevelopmentStatus)
	})

	t.Run("should fall back to the fork parent and the repository name", func(t *testing.T) {
		// given
		f := newFixture(t)
		reconciler := commands.NewReconciler(f.store, f.logos)
		repo := entitybuilders.NewRepositoryBuilder().WithForkedFrom("https://github.com/up/stream").BuildRepository()
		repo.ID = "repo-1"

		// when
		component, err := reconciler.Reconcile(context.Background(), &repo, entities.Publiccode{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "repo", component.Name)
		assert.Equal(t, []string{"https://github.com/up/stream"}, component.IsBasedOn)
		assert.Nil(t, component.Logo)
	})

	t.Run("should keep an explicit isBasedOn over the fork parent", func(t *testing.T) {
		// given
		f := newFixture(t)
		reconciler := commands.NewReconciler(f.store, f.logos)
		repo := entitybuilders.NewRepositoryBuilder().WithForkedFrom("https://github.com/up/stream").BuildRepository()
		repo.ID = "repo-1"
		publiccode := entities.Publiccode{Name: "Foo", IsBasedOn: entities.StringList{"https://example.org/base"}}

		// when
		component, err := reconciler.Reconcile(context.Background(), &repo, publiccode)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.org/base"}, component.IsBasedOn)
	})

	t.Run("should link suite, owner, contractors and contacts", func(t *testing.T) {
		// given
		f := newFixture(t)
		reconciler := commands.NewReconciler(f.store, f.logos)
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()
		repo.ID = "repo-1"

		// when
		component, err := reconciler.Reconcile(context.Background(), &repo, richPubliccode())

		// then
		require.NoError(t, err)
		assert.Equal(t, "repo-1", component.URL)
		assert.Equal(t, component.ID, repo.Component)
		assert.NotEmpty(t, component.ApplicationSuite)
		require.NotNil(t, component.Legal)
		assert.NotEmpty(t, component.Legal.RepoOwner)
		require.NotNil(t, component.Maintenance)
		assert.Len(t, component.Maintenance.Contractors, 1)
		assert.Len(t, component.Maintenance.Contacts, 1)
		require.NotNil(t, component.Rating)
		assert.Equal(t, 25, component.Rating.MaxRating)

		record, err := f.store.Get(context.Background(), entities.KindOrganisation, component.Legal.RepoOwner)
		require.NoError(t, err)
		var owner entities.Organisation
		require.NoError(t, record.Decode(&owner))
		assert.Equal(t, entities.OrganisationTypeOwner, owner.Type)
		assert.Equal(t, []string{component.ID}, owner.Owns)

		record, err = f.store.Get(context.Background(), entities.KindOrganisation, component.Maintenance.Contractors[0])
		require.NoError(t, err)
		var contractor entities.Organisation
		require.NoError(t, record.Decode(&contractor))
		assert.Equal(t, entities.OrganisationTypeContractor, contractor.Type)
		assert.Equal(t, "2030-01-01", contractor.Until)
		assert.Equal(t, []string{component.ID}, contractor.Supports)
	})

	t.Run("should not create new objects when reconciling the same content twice", func(t *testing.T) {
		// given
		f := newFixture(t)
		reconciler := commands.NewReconciler(f.store, f.logos)
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()
		repo.ID = "repo-1"
		first, err := reconciler.Reconcile(context.Background(), &repo, richPubliccode())
		require.NoError(t, err)
		counts := map[entities.Kind]int{
			entities.KindComponent:    f.store.Count(entities.KindComponent),
			entities.KindOrganisation: f.store.Count(entities.KindOrganisation),
			entities.KindContact:      f.store.Count(entities.KindContact),
			entities.KindApplication:  f.store.Count(entities.KindApplication),
		}

		// when
		second, err := reconciler.Reconcile(context.Background(), &repo, richPubliccode())

		// then
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Maintenance, second.Maintenance)
		for kind, count := range counts {
			assert.Equal(t, count, f.store.Count(kind), "count of %s changed", kind)
		}
		assert.Equal(t, 2, counts[entities.KindOrganisation])
		assert.Equal(t, 1, counts[entities.KindContact])
		assert.Equal(t, 1, counts[entities.KindApplication])

		record, err := f.store.Get(context.Background(), entities.KindApplication, second.ApplicationSuite)
		require.NoError(t, err)
		var application entities.Application
		require.NoError(t, record.Decode(&application))
		assert.Equal(t, []string{second.ID}, application.Components)
	})

	t.Run("should clear sub-objects the file no longer declares", func(t *testing.T) {
		// given
		f := newFixture(t)
		reconciler := commands.NewReconciler(f.store, f.logos)
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()
		repo.ID = "repo-1"
		_, err := reconciler.Reconcile(context.Background(), &repo, richPubliccode())
		require.NoError(t, err)

		// when
		component, err := reconciler.Reconcile(context.Background(), &repo, entities.Publiccode{Name: "Signalen"})

		// then
		require.NoError(t, err)
		assert.Nil(t, component.Legal)
		assert.Nil(t, component.Maintenance)
		assert.Empty(t, component.ApplicationSuite)
	})
}
