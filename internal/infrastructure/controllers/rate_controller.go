package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// RateController handles the "rate" subcommand.
type RateController struct {
	command commands.RateComponents
}

// NewRateController creates a new RateController.
func NewRateController(command commands.RateComponents) *RateController {
	return &RateController{command: command}
}

// GetBind returns the Cobra command metadata for the rate controller.
func (it *RateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "rate",
		Short: "Recompute the rating of every stored component",
		Args:  cobra.NoArgs,
	}
}

// Execute rescores all components.
func (it *RateController) Execute(_ *cobra.Command, _ []string) {
	count, err := it.command.Execute(context.Background())
	if err != nil {
		logger.Errorf("Rating failed: %v", err)
		return
	}
	logger.Infof("Rated %d components", count)
}
