package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// DiscoverController handles the "discover" subcommand.
type DiscoverController struct {
	command commands.Discover
}

// NewDiscoverController creates a new DiscoverController.
func NewDiscoverController(command commands.Discover) *DiscoverController {
	return &DiscoverController{command: command}
}

// GetBind returns the Cobra command metadata for the discover controller.
func (it *DiscoverController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "discover",
		Short: "Find publiccode files through code search",
		Long: `Search a hosting source for publiccode files and synchronise
every repository that holds one. Requires a token for the source.`,
		Args: cobra.NoArgs,
	}
}

// Execute runs the code search on the selected source.
func (it *DiscoverController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	source, _ := cmd.Flags().GetString("source")

	count, err := it.command.Execute(ctx, source)
	if err != nil {
		logger.Errorf("Discovery failed: %v", err)
		return
	}
	logger.Infof("Discovery on %s reconciled %d components", source, count)
}

// AddFlags adds the discover flags to the given Cobra command.
func (it *DiscoverController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", entities.SourceGitHub, "Hosting source to search (github, gitlab)")
}
