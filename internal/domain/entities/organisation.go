package entities

const (
	OrganisationTypeOrganization = "Organization"
	OrganisationTypeUser         = "User"
	OrganisationTypeOwner        = "Owner"
	OrganisationTypeContractor   = "Contractor"
)

// Organisation is a publisher, owner, contractor or user of components.
type Organisation struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Description  string   `json:"description,omitempty"`
	Website      string   `json:"website,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Logo         *string  `json:"logo"`
	GitHub       string   `json:"github,omitempty"`
	GitLab       string   `json:"gitlab,omitempty"`
	CatalogusAPI string   `json:"catalogusAPI,omitempty"`
	Until        string   `json:"until,omitempty"` // contractors only
	Owns         []string `json:"owns,omitempty"`
	Uses         []string `json:"uses,omitempty"`
	Supports     []string `json:"supports,omitempty"`
}

func (o *Organisation) ObjectKind() Kind      { return KindOrganisation }
func (o *Organisation) ObjectID() string      { return o.ID }
func (o *Organisation) SetObjectID(id string) { o.ID = id }
func (o *Organisation) NaturalKey() string    { return o.Name }

// Contact is a maintenance contact person.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

func (c *Contact) ObjectKind() Kind      { return KindContact }
func (c *Contact) ObjectID() string      { return c.ID }
func (c *Contact) SetObjectID(id string) { c.ID = id }
func (c *Contact) NaturalKey() string    { return c.Name }

// Application groups components in a suite.
type Application struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	Components  []string `json:"components,omitempty"`
}

func (a *Application) ObjectKind() Kind      { return KindApplication }
func (a *Application) ObjectID() string      { return a.ID }
func (a *Application) SetObjectID(id string) { a.ID = id }
func (a *Application) NaturalKey() string    { return a.Name }

// AppendUnique appends value to list when it is not already present.
func AppendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
