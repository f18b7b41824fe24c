package entities

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scalar keeps the literal text of any YAML scalar, so versions such as 0.2 or
// dates such as 2023-01-01 are not reinterpreted.
type Scalar string

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	*s = Scalar(node.Value)
	return nil
}

// StringList accepts either a single scalar or a sequence of scalars.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		values := make(StringList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" {
				values = append(values, item.Value)
			}
		}
		*l = values
		return nil
	default:
		return fmt.Errorf("line %d: expected a scalar or a sequence", node.Line)
	}
}

// Publiccode is the typed view on a publiccode.yml document.
type Publiccode struct {
	PubliccodeYmlVersion Scalar                           `yaml:"publiccodeYmlVersion"`
	Name                 string                           `yaml:"name"`
	ApplicationSuite     string                           `yaml:"applicationSuite"`
	URL                  string                           `yaml:"url"`
	LandingURL           string                           `yaml:"landingURL"`
	IsBasedOn            StringList                       `yaml:"isBasedOn"`
	SoftwareVersion      Scalar                           `yaml:"softwareVersion"`
	ReleaseDate          Scalar                           `yaml:"releaseDate"`
	Logo                 string                           `yaml:"logo"`
	Platforms            StringList                       `yaml:"platforms"`
	Categories           StringList                       `yaml:"categories"`
	UsedBy               StringList                       `yaml:"usedBy"`
	Roadmap              string                           `yaml:"roadmap"`
	DevelopmentStatus    string                           `yaml:"developmentStatus"`
	SoftwareType         string                           `yaml:"softwareType"`
	IntendedAudience     *PubliccodeAudience              `yaml:"intendedAudience"`
	Description          map[string]PubliccodeDescription `yaml:"description"`
	Legal                *PubliccodeLegal                 `yaml:"legal"`
	Maintenance          *PubliccodeMaintenance           `yaml:"maintenance"`
	Localisation         *PubliccodeLocalisation          `yaml:"localisation"`
	DependsOn            *PubliccodeDependsOn             `yaml:"dependsOn"`
}

type PubliccodeAudience struct {
	Countries            StringList `yaml:"countries"`
	UnsupportedCountries StringList `yaml:"unsupportedCountries"`
	Scope                StringList `yaml:"scope"`
}

type PubliccodeDescription struct {
	LocalisedName    string     `yaml:"localisedName"`
	GenericName      string     `yaml:"genericName"`
	ShortDescription string     `yaml:"shortDescription"`
	LongDescription  string     `yaml:"longDescription"`
	Documentation    string     `yaml:"documentation"`
	APIDocumentation string     `yaml:"apiDocumentation"`
	Features         StringList `yaml:"features"`
	Screenshots      StringList `yaml:"screenshots"`
	Videos           StringList `yaml:"videos"`
	Awards           StringList `yaml:"awards"`
}

type PubliccodeLegal struct {
	License            string `yaml:"license"`
	MainCopyrightOwner string `yaml:"mainCopyrightOwner"`
	RepoOwner          string `yaml:"repoOwner"`
	AuthorsFile        string `yaml:"authorsFile"`
}

type PubliccodeMaintenance struct {
	Type        string                 `yaml:"type"`
	Contractors []PubliccodeContractor `yaml:"contractors"`
	Contacts    []PubliccodeContact    `yaml:"contacts"`
}

type PubliccodeContractor struct {
	Name    string `yaml:"name"`
	Until   Scalar `yaml:"until"`
	Email   string `yaml:"email"`
	Website string `yaml:"website"`
}

type PubliccodeContact struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Phone       Scalar `yaml:"phone"`
	Affiliation string `yaml:"affiliation"`
}

type PubliccodeLocalisation struct {
	LocalisationReady  bool       `yaml:"localisationReady"`
	AvailableLanguages StringList `yaml:"availableLanguages"`
}

type PubliccodeDependsOn struct {
	Open        []PubliccodeDependency `yaml:"open"`
	Proprietary []PubliccodeDependency `yaml:"proprietary"`
	Hardware    []PubliccodeDependency `yaml:"hardware"`
}

type PubliccodeDependency struct {
	Name string `yaml:"name"`
}

// preferredLanguages is the order in which description languages are picked.
var preferredLanguages = []string{"nl", "en"} //nolint:gochecknoglobals // read-only lookup

// MapPubliccode maps a decoded document onto the typed Publiccode view.
func MapPubliccode(doc Document) (Publiccode, error) {
	var publiccode Publiccode
	if err := remap(doc, &publiccode); err != nil {
		return Publiccode{}, err
	}
	return publiccode, nil
}

// PreferredDescription returns the description in the preferred language, or nil.
func (p Publiccode) PreferredDescription() *PubliccodeDescription {
	if len(p.Description) == 0 {
		return nil
	}
	for _, lang := range preferredLanguages {
		if description, ok := p.Description[lang]; ok {
			return &description
		}
	}

	langs := make([]string, 0, len(p.Description))
	for lang := range p.Description {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	description := p.Description[langs[0]]
	return &description
}

// ApplyTo copies the plain (non-reference) fields onto component.
// References to other objects are set by the reconciler.
func (p Publiccode) ApplyTo(component *Component) {
	component.PubliccodeYmlVersion = string(p.PubliccodeYmlVersion)
	component.Name = p.Name
	component.LandingURL = p.LandingURL
	component.IsBasedOn = []string(p.IsBasedOn)
	component.SoftwareVersion = string(p.SoftwareVersion)
	component.ReleaseDate = string(p.ReleaseDate)
	component.Platforms = []string(p.Platforms)
	component.Categories = []string(p.Categories)
	component.UsedBy = []string(p.UsedBy)
	component.Roadmap = p.Roadmap
	component.DevelopmentStatus = p.DevelopmentStatus
	component.SoftwareType = p.SoftwareType

	component.IntendedAudience = nil
	if p.IntendedAudience != nil {
		component.IntendedAudience = &IntendedAudience{
			Countries:            []string(p.IntendedAudience.Countries),
			UnsupportedCountries: []string(p.IntendedAudience.UnsupportedCountries),
			Scope:                []string(p.IntendedAudience.Scope),
		}
	}

	component.Description = nil
	if description := p.PreferredDescription(); description != nil {
		component.Description = &Description{
			LocalisedName:    description.LocalisedName,
			GenericName:      description.GenericName,
			ShortDescription: description.ShortDescription,
			LongDescription:  description.LongDescription,
			Documentation:    description.Documentation,
			APIDocumentation: description.APIDocumentation,
			Features:         []string(description.Features),
			Screenshots:      []string(description.Screenshots),
			Videos:           []string(description.Videos),
			Awards:           []string(description.Awards),
		}
	}

	component.Localisation = nil
	if p.Localisation != nil {
		component.Localisation = &Localisation{
			LocalisationReady:  p.Localisation.LocalisationReady,
			AvailableLanguages: []string(p.Localisation.AvailableLanguages),
		}
	}

	component.DependsOn = nil
	if p.DependsOn != nil {
		component.DependsOn = &DependsOn{
			Open:        dependencyNames(p.DependsOn.Open),
			Proprietary: dependencyNames(p.DependsOn.Proprietary),
			Hardware:    dependencyNames(p.DependsOn.Hardware),
		}
	}
}

func dependencyNames(deps []PubliccodeDependency) []string {
	var names []string
	for _, dep := range deps {
		if dep.Name != "" {
			names = append(names, dep.Name)
		}
	}
	return names
}

// remap re-encodes a loosely-typed document and decodes it into out using its yaml tags.
func remap(doc Document, out any) error {
	raw, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if unmarshalErr := yaml.Unmarshal(raw, out); unmarshalErr != nil {
		return fmt.Errorf("failed to map document: %w", unmarshalErr)
	}
	return nil
}
