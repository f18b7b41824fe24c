package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// SyncRepositoryController handles the "sync-repository" subcommand.
type SyncRepositoryController struct {
	command commands.SyncRepository
}

// NewSyncRepositoryController creates a new SyncRepositoryController.
func NewSyncRepositoryController(command commands.SyncRepository) *SyncRepositoryController {
	return &SyncRepositoryController{command: command}
}

// GetBind returns the Cobra command metadata for the sync-repository controller.
func (it *SyncRepositoryController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync-repository <url>",
		Short: "Synchronise a single repository",
		Long: `Fetch a GitHub or GitLab repository, look for its publiccode file
and create or update the matching component, its owners,
contractors, contacts and application suite.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute synchronises the repository given as the first argument.
func (it *SyncRepositoryController) Execute(_ *cobra.Command, args []string) {
	ctx := context.Background()

	result, err := it.command.Execute(ctx, args[0])
	if err != nil {
		logger.Errorf("Sync failed: %v", err)
		return
	}

	if result.Component == nil {
		logger.Infof("Repository %s has no publiccode file", result.Repository.URL)
		return
	}
	logger.Infof(
		"Component %q (%s) rated %d/%d",
		result.Component.Name, result.Component.ID,
		result.Component.Rating.Rating, result.Component.Rating.MaxRating,
	)
}
