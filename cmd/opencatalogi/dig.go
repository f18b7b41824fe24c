package main

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/rios0rios0/opencatalogi/internal"
)

// injectAppContext resolves the controller graph. Configuration and store
// errors surface here because settings are loaded lazily by dig.
func injectAppContext() (*internal.AppInternal, error) {
	container := dig.New()
	if err := internal.RegisterProviders(container); err != nil {
		return nil, err
	}

	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", dig.RootCause(err))
	}
	return appInternal, nil
}
