package entities

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	return container.Provide(LoadSettings)
}

// LoadSettings finds and loads the configuration file, falling back to
// defaults and environment tokens when none exists.
func LoadSettings() (*Settings, error) {
	path := os.Getenv("OPENCATALOGI_CONFIG")
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Infof("No config file found, using defaults: %v", err)
			return DefaultSettings(), nil
		}
		path = found
	}

	logger.Infof("Using config file: %s", path)
	return NewSettings(path)
}
