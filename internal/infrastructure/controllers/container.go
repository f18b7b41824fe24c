package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	constructors := []interface{}{
		NewServer,
		NewSyncRepositoryController,
		NewSyncOrganizationController,
		NewDiscoverController,
		NewImportController,
		NewRateController,
		NewServeController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	syncRepositoryController *SyncRepositoryController,
	syncOrganizationController *SyncOrganizationController,
	discoverController *DiscoverController,
	importController *ImportController,
	rateController *RateController,
	serveController *ServeController,
) *[]entities.Controller {
	return &[]entities.Controller{
		syncRepositoryController,
		syncOrganizationController,
		discoverController,
		importController,
		rateController,
		serveController,
	}
}
