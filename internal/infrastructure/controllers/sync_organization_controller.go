package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// SyncOrganizationController handles the "sync-organization" subcommand.
type SyncOrganizationController struct {
	command commands.SyncOrganization
}

// NewSyncOrganizationController creates a new SyncOrganizationController.
func NewSyncOrganizationController(command commands.SyncOrganization) *SyncOrganizationController {
	return &SyncOrganizationController{command: command}
}

// GetBind returns the Cobra command metadata for the sync-organization controller.
func (it *SyncOrganizationController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync-organization <name>",
		Short: "Synchronise an organisation and all of its repositories",
		Long: `Fetch an organisation (GitHub organization or user, GitLab group or user),
apply its opencatalogi file when present and synchronise every
repository it owns.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute synchronises the organisation given as the first argument.
func (it *SyncOrganizationController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	source, _ := cmd.Flags().GetString("source")

	organisation, err := it.command.Execute(ctx, source, args[0])
	if err != nil {
		logger.Errorf("Sync failed: %v", err)
		return
	}
	logger.Infof("Organisation %q owns %d components", organisation.Name, len(organisation.Owns))
}

// AddFlags adds the sync-organization flags to the given Cobra command.
func (it *SyncOrganizationController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", entities.SourceGitHub, "Hosting source of the organisation (github, gitlab)")
}
