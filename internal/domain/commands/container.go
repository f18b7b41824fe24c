package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register collaborators and command constructors
	constructors := []interface{}{
		NewLogoResolver,
		NewReconciler,
		NewSyncRepositoryCommand,
		NewSyncOrganizationCommand,
		NewDiscoverCommand,
		NewImportDeveloperOverheidCommand,
		NewImportComponentenCatalogusCommand,
		NewRateComponentsCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *SyncRepositoryCommand) SyncRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *SyncOrganizationCommand) SyncOrganization {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *DiscoverCommand) Discover {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ImportDeveloperOverheidCommand) ImportDeveloperOverheid {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ImportComponentenCatalogusCommand) ImportComponentenCatalogus {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *RateComponentsCommand) RateComponents {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
