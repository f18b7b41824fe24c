package entities

// CatalogEntry is a repository reference listed by an external catalog.
type CatalogEntry struct {
	Source        string
	RepositoryURL string
	Name          string
}

// CatalogProduct is an application listed by an external catalog.
type CatalogProduct struct {
	Name           string
	Summary        string
	Description    string
	Logo           string
	RepositoryURLs []string
}
