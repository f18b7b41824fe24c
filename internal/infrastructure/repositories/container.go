package repositories

import (
	"fmt"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/dig"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	domainRepos "github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	catalogRepo "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/catalogs"
	ghRepo "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/gitlab"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/objectstore"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/rawhttp"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register source registry with every configured hosting source
	if err := container.Provide(NewConfiguredSourceRegistry); err != nil {
		return err
	}

	// Register the object store selected by the settings
	if err := container.Provide(NewObjectRepository); err != nil {
		return err
	}

	// Register catalog readers sharing one HTTP client
	if err := container.Provide(func() *rawhttp.Client {
		return rawhttp.New(map[string]string{"Accept": "application/json"})
	}); err != nil {
		return err
	}
	if err := container.Provide(func(
		settings *entities.Settings,
		client *rawhttp.Client,
	) domainRepos.DeveloperOverheidRepository {
		return catalogRepo.NewDeveloperOverheidRepository(settings.Catalogs.DeveloperOverheid, client)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(
		settings *entities.Settings,
		client *rawhttp.Client,
	) domainRepos.ComponentenCatalogusRepository {
		return catalogRepo.NewComponentenCatalogusRepository(settings.Catalogs.ComponentenCatalogus, client)
	}); err != nil {
		return err
	}

	return nil
}

// NewConfiguredSourceRegistry registers GitHub and GitLab sources built from settings.
func NewConfiguredSourceRegistry(settings *entities.Settings) (*SourceRegistry, error) {
	httpClient := cleanhttp.DefaultPooledClient()

	github, err := ghRepo.NewGitHubSourceRepository(settings.Sources.GitHub, httpClient)
	if err != nil {
		return nil, err
	}
	gitlab, err := glRepo.NewGitLabSourceRepository(settings.Sources.GitLab, httpClient)
	if err != nil {
		return nil, err
	}

	reg := NewSourceRegistry()
	reg.Register(github)
	reg.Register(gitlab)
	return reg, nil
}

// NewObjectRepository opens the object store named by settings.Store.Driver.
func NewObjectRepository(settings *entities.Settings) (domainRepos.ObjectRepository, error) {
	switch settings.Store.Driver {
	case "", entities.StoreMemory:
		return objectstore.NewMemoryObjectRepository(), nil
	case entities.StoreSQLite, entities.StoreMySQL, entities.StorePostgres:
		return objectstore.NewSQLObjectRepository(settings.Store)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", settings.Store.Driver)
	}
}
