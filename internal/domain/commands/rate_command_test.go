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

func TestRateComponentsCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should rescore every stored component", func(t *testing.T) {
		// given
		f := newFixture(t)
		for i, name := range []string{"complete", "bare"} {
			builder := entitybuilders.NewComponentBuilder().WithName(name)
			if name == "bare" {
				builder = builder.Bare()
			}
			component := builder.BuildComponent()
			component.ID = []string{"c-1", "c-2"}[i]
			record, err := entities.NewRecord(&component)
			require.NoError(t, err)
			require.NoError(t, f.store.Save(context.Background(), record))
		}
		cmd := commands.NewRateComponentsCommand(f.store, f.settings)

		// when
		rated, err := cmd.Execute(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, rated)
		complete := loadComponent(t, f, "c-1")
		bare := loadComponent(t, f, "c-2")
		require.NotNil(t, complete.Rating)
		require.NotNil(t, bare.Rating)
		assert.Equal(t, 13, complete.Rating.Rating)
		assert.Equal(t, 1, bare.Rating.Rating)
		assert.Equal(t, 25, bare.Rating.MaxRating)
		assert.Equal(t, 1, f.store.FlushCount)
	})
}
