package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// RateComponents is the interface for recomputing the rating of every stored component.
type RateComponents interface {
	Execute(ctx context.Context) (int, error)
}

// RateComponentsCommand rescores every component in the store.
type RateComponentsCommand struct {
	store    repositories.ObjectRepository
	settings *entities.Settings
}

// NewRateComponentsCommand creates a new RateComponentsCommand.
func NewRateComponentsCommand(store repositories.ObjectRepository, settings *entities.Settings) *RateComponentsCommand {
	return &RateComponentsCommand{store: store, settings: settings}
}

// Execute returns the number of components rated.
func (it *RateComponentsCommand) Execute(ctx context.Context) (int, error) {
	records, err := it.store.List(ctx, entities.KindComponent)
	if err != nil {
		return 0, fmt.Errorf("failed to list components: %w", err)
	}

	b := newBatch(it.store, it.settings.BatchSize)
	rated := 0
	for _, record := range records {
		component, loadErr := load[entities.Component](record)
		if loadErr != nil {
			logger.Errorf("Skipping component %s: %v", record.ID, loadErr)
			continue
		}

		rating := entities.ScoreComponent(*component)
		component.Rating = &rating
		if saveErr := save(ctx, it.store, component); saveErr != nil {
			logger.Errorf("Failed to save rating of %q: %v", component.Name, saveErr)
			continue
		}
		logger.Debugf("Rated %q %d/%d", component.Name, rating.Rating, rating.MaxRating)

		rated++
		b.tick(ctx)
	}

	if err = b.done(ctx); err != nil {
		return rated, fmt.Errorf("failed to flush store: %w", err)
	}
	return rated, nil
}
