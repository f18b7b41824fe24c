package entities

const DevelopmentStatusObsolete = "obsolete"

// Component is a software entry derived from a publiccode file.
type Component struct {
	ID                   string            `json:"id"`
	Source               string            `json:"source"`
	SourceID             string            `json:"sourceId"`
	PubliccodeYmlVersion string            `json:"publiccodeYmlVersion,omitempty"`
	Name                 string            `json:"name"`
	ApplicationSuite     string            `json:"applicationSuite,omitempty"`
	URL                  string            `json:"url,omitempty"` // repository object ID
	LandingURL           string            `json:"landingURL,omitempty"`
	IsBasedOn            []string          `json:"isBasedOn,omitempty"`
	SoftwareVersion      string            `json:"softwareVersion,omitempty"`
	ReleaseDate          string            `json:"releaseDate,omitempty"`
	Logo                 *string           `json:"logo"`
	Platforms            []string          `json:"platforms,omitempty"`
	Categories           []string          `json:"categories,omitempty"`
	UsedBy               []string          `json:"usedBy,omitempty"`
	Roadmap              string            `json:"roadmap,omitempty"`
	DevelopmentStatus    string            `json:"developmentStatus,omitempty"`
	SoftwareType         string            `json:"softwareType,omitempty"`
	IntendedAudience     *IntendedAudience `json:"intendedAudience,omitempty"`
	Description          *Description      `json:"description,omitempty"`
	Legal                *Legal            `json:"legal,omitempty"`
	Maintenance          *Maintenance      `json:"maintenance,omitempty"`
	Localisation         *Localisation     `json:"localisation,omitempty"`
	DependsOn            *DependsOn        `json:"dependsOn,omitempty"`
	Rating               *Rating           `json:"rating,omitempty"`
}

func (c *Component) ObjectKind() Kind      { return KindComponent }
func (c *Component) ObjectID() string      { return c.ID }
func (c *Component) SetObjectID(id string) { c.ID = id }
func (c *Component) NaturalKey() string    { return c.Name }

func (c *Component) SyncSource() (string, string) { return c.Source, c.SourceID }

// Description holds the localised texts of a component.
type Description struct {
	LocalisedName    string   `json:"localisedName,omitempty"`
	GenericName      string   `json:"genericName,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	LongDescription  string   `json:"longDescription,omitempty"`
	Documentation    string   `json:"documentation,omitempty"`
	APIDocumentation string   `json:"apiDocumentation,omitempty"`
	Features         []string `json:"features,omitempty"`
	Screenshots      []string `json:"screenshots,omitempty"`
	Videos           []string `json:"videos,omitempty"`
	Awards           []string `json:"awards,omitempty"`
}

// Legal holds licensing information. Owner fields reference Organisation IDs.
type Legal struct {
	License            string `json:"license,omitempty"`
	AuthorsFile        string `json:"authorsFile,omitempty"`
	RepoOwner          string `json:"repoOwner,omitempty"`
	MainCopyrightOwner string `json:"mainCopyrightOwner,omitempty"`
}

// Maintenance references contractor Organisations and Contacts by ID.
type Maintenance struct {
	Type        string   `json:"type,omitempty"`
	Contractors []string `json:"contractors,omitempty"`
	Contacts    []string `json:"contacts,omitempty"`
}

type IntendedAudience struct {
	Countries            []string `json:"countries,omitempty"`
	UnsupportedCountries []string `json:"unsupportedCountries,omitempty"`
	Scope                []string `json:"scope,omitempty"`
}

type Localisation struct {
	LocalisationReady  bool     `json:"localisationReady"`
	AvailableLanguages []string `json:"availableLanguages,omitempty"`
}

type DependsOn struct {
	Open        []string `json:"open,omitempty"`
	Proprietary []string `json:"proprietary,omitempty"`
	Hardware    []string `json:"hardware,omitempty"`
}
