package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

const (
	catalogDeveloperOverheid    = "developer-overheid"
	catalogComponentenCatalogus = "componentencatalogus"
)

// ImportController handles the "import" subcommand.
type ImportController struct {
	developerOverheid    commands.ImportDeveloperOverheid
	componentenCatalogus commands.ImportComponentenCatalogus
}

// NewImportController creates a new ImportController.
func NewImportController(
	developerOverheid commands.ImportDeveloperOverheid,
	componentenCatalogus commands.ImportComponentenCatalogus,
) *ImportController {
	return &ImportController{
		developerOverheid:    developerOverheid,
		componentenCatalogus: componentenCatalogus,
	}
}

// GetBind returns the Cobra command metadata for the import controller.
func (it *ImportController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "import <" + catalogDeveloperOverheid + "|" + catalogComponentenCatalogus + ">",
		Short: "Import repositories from an external catalog",
		Long: `Import the repositories listed on developer.overheid.nl, or the
products of the componentencatalogus as applications, and
synchronise every referenced repository.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute imports the catalog named by the first argument.
func (it *ImportController) Execute(_ *cobra.Command, args []string) {
	ctx := context.Background()

	var (
		count int
		err   error
	)
	switch args[0] {
	case catalogDeveloperOverheid:
		count, err = it.developerOverheid.Execute(ctx)
	case catalogComponentenCatalogus:
		count, err = it.componentenCatalogus.Execute(ctx)
	default:
		err = fmt.Errorf("unknown catalog %q (expected %s or %s)",
			args[0], catalogDeveloperOverheid, catalogComponentenCatalogus)
	}
	if err != nil {
		logger.Errorf("Import failed: %v", err)
		return
	}
	logger.Infof("Imported %d entries from %s", count, args[0])
}
