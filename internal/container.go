package internal

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/controllers"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories"
)

type layer struct {
	name     string
	register func(*dig.Container) error
}

// RegisterProviders registers every layer bottom-up: stores and sources,
// then settings, then the synchronisation commands and their controllers.
func RegisterProviders(container *dig.Container) error {
	layers := []layer{
		{name: "repositories", register: repositories.RegisterProviders},
		{name: "entities", register: entities.RegisterProviders},
		{name: "commands", register: commands.RegisterProviders},
		{name: "controllers", register: controllers.RegisterProviders},
	}
	for _, l := range layers {
		if err := l.register(container); err != nil {
			return fmt.Errorf("failed to register %s providers: %w", l.name, err)
		}
	}

	return container.Provide(NewAppInternal)
}
