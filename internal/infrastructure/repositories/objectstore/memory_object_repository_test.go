//go:build unit

package objectstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/objectstore"
)

func newRecord(t *testing.T, obj entities.Object) entities.Record {
	t.Helper()

	record, err := entities.NewRecord(obj)
	require.NoError(t, err)
	return record
}

func TestMemoryObjectRepository(t *testing.T) {
	t.Parallel()

	t.Run("should find records by key and by source", func(t *testing.T) {
		// given
		store := objectstore.NewMemoryObjectRepository()
		repo := &entities.Repository{ID: "r-1", Source: entities.SourceGitHub, URL: "https://github.com/org/repo"}
		require.NoError(t, store.Save(context.Background(), newRecord(t, repo)))

		// when
		byKey, keyErr := store.FindByKey(context.Background(), entities.KindRepository, repo.URL)
		bySource, sourceErr := store.FindBySource(
			context.Background(), entities.KindRepository, entities.SourceGitHub, repo.URL,
		)

		// then
		require.NoError(t, keyErr)
		require.NoError(t, sourceErr)
		assert.Equal(t, "r-1", byKey.ID)
		assert.Equal(t, "r-1", bySource.ID)
	})

	t.Run("should return the oldest record when names collide", func(t *testing.T) {
		// given
		store := objectstore.NewMemoryObjectRepository()
		require.NoError(t, store.Save(context.Background(), newRecord(t, &entities.Organisation{ID: "o-1", Name: "Acme"})))
		require.NoError(t, store.Save(context.Background(), newRecord(t, &entities.Organisation{ID: "o-2", Name: "Acme"})))
		require.NoError(t, store.Save(context.Background(), newRecord(t, &entities.Organisation{ID: "o-1", Name: "Acme"})))

		// when
		record, err := store.FindByKey(context.Background(), entities.KindOrganisation, "Acme")
		records, listErr := store.List(context.Background(), entities.KindOrganisation)

		// then
		require.NoError(t, err)
		require.NoError(t, listErr)
		assert.Equal(t, "o-1", record.ID)
		require.Len(t, records, 2)
		assert.Equal(t, "o-2", records[1].ID)
	})

	t.Run("should report missing records as ErrObjectNotFound", func(t *testing.T) {
		// given
		store := objectstore.NewMemoryObjectRepository()

		// when
		_, getErr := store.Get(context.Background(), entities.KindComponent, "missing")
		_, findErr := store.FindByKey(context.Background(), entities.KindComponent, "missing")

		// then
		require.ErrorIs(t, getErr, entities.ErrObjectNotFound)
		require.ErrorIs(t, findErr, entities.ErrObjectNotFound)
	})

	t.Run("should reject records without an id", func(t *testing.T) {
		// given
		store := objectstore.NewMemoryObjectRepository()

		// when
		err := store.Save(context.Background(), newRecord(t, &entities.Contact{Name: "Jan"}))

		// then
		require.Error(t, err)
	})
}
