//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// ComponentBuilder helps create test components with a fluent interface.
// The default component has every top-level field set and no sub-objects.
type ComponentBuilder struct {
	*testkit.BaseBuilder
	name        string
	description *entities.Description
	legal       *entities.Legal
	maintenance *entities.Maintenance
	bare        bool
}

// NewComponentBuilder creates a new component builder with sensible defaults.
func NewComponentBuilder() *ComponentBuilder {
	return &ComponentBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-component",
	}
}

// WithName sets the component name.
func (b *ComponentBuilder) WithName(name string) *ComponentBuilder {
	b.name = name
	return b
}

// WithDescription sets the description sub-object.
func (b *ComponentBuilder) WithDescription(description *entities.Description) *ComponentBuilder {
	b.description = description
	return b
}

// WithLegal sets the legal sub-object.
func (b *ComponentBuilder) WithLegal(legal *entities.Legal) *ComponentBuilder {
	b.legal = legal
	return b
}

// WithMaintenance sets the maintenance sub-object.
func (b *ComponentBuilder) WithMaintenance(maintenance *entities.Maintenance) *ComponentBuilder {
	b.maintenance = maintenance
	return b
}

// Bare leaves every optional top-level field empty.
func (b *ComponentBuilder) Bare() *ComponentBuilder {
	b.bare = true
	return b
}

// Build creates the component (satisfies testkit.Builder interface).
func (b *ComponentBuilder) Build() interface{} {
	return b.BuildComponent()
}

// BuildComponent creates the component with a concrete return type.
func (b *ComponentBuilder) BuildComponent() entities.Component {
	component := entities.Component{
		Name:        b.name,
		Description: b.description,
		Legal:       b.legal,
		Maintenance: b.maintenance,
	}
	if b.bare {
		return component
	}

	logo := "https://example.org/logo.svg"
	component.URL = "repository-id"
	component.LandingURL = "https://example.org"
	component.SoftwareVersion = "1.0.0"
	component.ReleaseDate = "2024-01-01"
	component.Logo = &logo
	component.Roadmap = "https://example.org/roadmap"
	component.DevelopmentStatus = "stable"
	component.SoftwareType = "standalone/web"
	component.Platforms = []string{"web"}
	component.Categories = []string{"it-development"}
	component.UsedBy = []string{"Gemeente Utrecht"}
	component.IsBasedOn = []string{"https://github.com/upstream/repo"}
	return component
}

// Reset clears the builder state, allowing it to be reused.
func (b *ComponentBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-component"
	b.description = nil
	b.legal = nil
	b.maintenance = nil
	b.bare = false
	return b
}

// Clone creates a deep copy of the ComponentBuilder.
func (b *ComponentBuilder) Clone() testkit.Builder {
	return &ComponentBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		description: b.description,
		legal:       b.legal,
		maintenance: b.maintenance,
		bare:        b.bare,
	}
}
