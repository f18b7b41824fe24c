package catalogs

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
	"github.com/rios0rios0/opencatalogi/internal/infrastructure/repositories/rawhttp"
)

// maxPages stops runaway pagination on catalogs that never report a last page.
const maxPages = 500

type developerOverheidPage struct {
	Results []struct {
		Source string `json:"source"`
		URL    string `json:"url"`
		Name   string `json:"name"`
	} `json:"results"`
	Next string `json:"next"`
}

// DeveloperOverheidRepository reads the repository list of developer.overheid.nl.
type DeveloperOverheidRepository struct {
	apiURL string
	client *rawhttp.Client
}

// NewDeveloperOverheidRepository creates a reader for the catalog at settings.APIURL.
func NewDeveloperOverheidRepository(
	settings entities.CatalogSettings,
	client *rawhttp.Client,
) repositories.DeveloperOverheidRepository {
	return &DeveloperOverheidRepository{
		apiURL: strings.TrimSuffix(settings.APIURL, "/"),
		client: client,
	}
}

// ListRepositories walks GET {api}/repositories?page=N until a page has no next link.
func (r *DeveloperOverheidRepository) ListRepositories(ctx context.Context) ([]entities.CatalogEntry, error) {
	var entries []entities.CatalogEntry
	for page := 1; page <= maxPages; page++ {
		var body developerOverheidPage
		location := fmt.Sprintf("%s/repositories?page=%d", r.apiURL, page)
		if err := r.client.GetJSON(ctx, location, &body); err != nil {
			return entries, err
		}

		for _, result := range body.Results {
			if result.URL == "" {
				continue
			}
			entries = append(entries, entities.CatalogEntry{
				Source:        result.Source,
				RepositoryURL: result.URL,
				Name:          result.Name,
			})
		}
		logger.Debugf("developer.overheid.nl page %d: %d repositories", page, len(body.Results))

		if body.Next == "" || len(body.Results) == 0 {
			break
		}
	}
	return entries, nil
}
