package entities

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SoftwareRef is an entry of an opencatalogi software list: either a bare
// repository URL or a mapping with a "software" key.
type SoftwareRef struct {
	Software string `yaml:"software"`
	Type     string `yaml:"type"`
}

func (s *SoftwareRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Software = node.Value
		return nil
	case yaml.MappingNode:
		type plain SoftwareRef
		var decoded plain
		if err := node.Decode(&decoded); err != nil {
			return err
		}
		*s = SoftwareRef(decoded)
		return nil
	default:
		return fmt.Errorf("line %d: expected a URL or a mapping", node.Line)
	}
}

// OpenCatalogi is the typed view on an organisation's opencatalogi.yaml.
type OpenCatalogi struct {
	Name              string        `yaml:"name"`
	Description       string        `yaml:"description"`
	Type              string        `yaml:"type"`
	Telephone         Scalar        `yaml:"telephone"`
	Email             string        `yaml:"email"`
	Website           string        `yaml:"website"`
	Logo              string        `yaml:"logo"`
	CatalogusAPI      string        `yaml:"catalogusAPI"`
	SoftwareOwned     []SoftwareRef `yaml:"softwareOwned"`
	SoftwareSupported []SoftwareRef `yaml:"softwareSupported"`
	SoftwareUsed      []SoftwareRef `yaml:"softwareUsed"`
}

// MapOpenCatalogi maps a decoded document onto the typed OpenCatalogi view.
func MapOpenCatalogi(doc Document) (OpenCatalogi, error) {
	var file OpenCatalogi
	if err := remap(doc, &file); err != nil {
		return OpenCatalogi{}, err
	}
	return file, nil
}

// ApplyTo copies the descriptive fields onto organisation, keeping what the file leaves empty.
func (o OpenCatalogi) ApplyTo(organisation *Organisation) {
	if o.Description != "" {
		organisation.Description = o.Description
	}
	if o.Type != "" {
		organisation.Type = o.Type
	}
	if o.Telephone != "" {
		organisation.Phone = string(o.Telephone)
	}
	if o.Email != "" {
		organisation.Email = o.Email
	}
	if o.Website != "" {
		organisation.Website = o.Website
	}
	if o.CatalogusAPI != "" {
		organisation.CatalogusAPI = o.CatalogusAPI
	}
}
