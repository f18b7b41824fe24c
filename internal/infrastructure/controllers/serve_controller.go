package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ServeController handles the "serve" subcommand.
type ServeController struct {
	server   *Server
	settings *entities.Settings
}

// NewServeController creates a new ServeController.
func NewServeController(server *Server, settings *entities.Settings) *ServeController {
	return &ServeController{server: server, settings: settings}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Serve the synchronisation endpoints over HTTP",
		Long: `Start an HTTP server exposing:
  GET  /healthz
  POST /api/repositories/sync                 {"url": "..."}
  POST /api/organizations/{source}/{name}/sync
  GET  /api/components/{id}`,
		Args: cobra.NoArgs,
	}
}

// Execute runs the HTTP server until SIGINT or SIGTERM.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) {
	address, _ := cmd.Flags().GetString("address")
	if address == "" {
		address = it.settings.Server.Address
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//nolint:exhaustruct // Minimal Server initialization with required fields only
	httpServer := &http.Server{
		Addr:              address,
		Handler:           it.server.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shut down server: %v", err)
		}
	}()

	logger.Infof("Listening on %s", address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Server failed: %v", err)
	}
}

// AddFlags adds the serve flags to the given Cobra command.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("address", "", "Listen address (default: server.address from the config)")
}
