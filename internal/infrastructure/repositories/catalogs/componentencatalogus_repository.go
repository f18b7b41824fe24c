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

type componentenCatalogusPage struct {
	Results []struct {
		Name             string `json:"name"`
		Summary          string `json:"summary"`
		Description      string `json:"description"`
		Logo             string `json:"logo"`
		CodeRepositories []struct {
			URL string `json:"url"`
		} `json:"codeRepositories"`
	} `json:"results"`
	Next string `json:"next"`
}

// ComponentenCatalogusRepository reads the products of the componentencatalogus.
type ComponentenCatalogusRepository struct {
	apiURL string
	client *rawhttp.Client
}

// NewComponentenCatalogusRepository creates a reader for the catalog at settings.APIURL.
func NewComponentenCatalogusRepository(
	settings entities.CatalogSettings,
	client *rawhttp.Client,
) repositories.ComponentenCatalogusRepository {
	return &ComponentenCatalogusRepository{
		apiURL: strings.TrimSuffix(settings.APIURL, "/"),
		client: client,
	}
}

// ListProducts walks GET {api}/products?page=N until a page has no next link.
func (r *ComponentenCatalogusRepository) ListProducts(ctx context.Context) ([]entities.CatalogProduct, error) {
	var products []entities.CatalogProduct
	for page := 1; page <= maxPages; page++ {
		var body componentenCatalogusPage
		location := fmt.Sprintf("%s/products?page=%d", r.apiURL, page)
		if err := r.client.GetJSON(ctx, location, &body); err != nil {
			return products, err
		}

		for _, result := range body.Results {
			product := entities.CatalogProduct{
				Name:        result.Name,
				Summary:     result.Summary,
				Description: result.Description,
				Logo:        result.Logo,
			}
			for _, repo := range result.CodeRepositories {
				if repo.URL != "" {
					product.RepositoryURLs = append(product.RepositoryURLs, repo.URL)
				}
			}
			products = append(products, product)
		}
		logger.Debugf("componentencatalogus page %d: %d products", page, len(body.Results))

		if body.Next == "" || len(body.Results) == 0 {
			break
		}
	}
	return products, nil
}
