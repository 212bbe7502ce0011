package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intakehub/internal/api"
	"intakehub/internal/api/handlers"
	"intakehub/internal/config"
	"intakehub/internal/logging"
	"intakehub/internal/metrics"
	"intakehub/internal/services"
	"intakehub/internal/services/auth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

type ServeOptions struct {
	Host               string
	Port               int
	JWTSecret          string
	AuditEnabled       bool
	DriftCheckInterval string
}

func NewServeCommand(globalOptions *GlobalOptions) *cobra.Command {
	serveOptions := &ServeOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(globalOptions)
		},
	}

	serveOptions.registerFlags(serveCmd)

	return serveCmd
}

func (options *ServeOptions) registerFlags(cmd *cobra.Command) {
	// flags for the serve command only
	cmd.Flags().StringVar(&options.Host, "host", "", "Interface to listen on. (Env: INTAKE_SERVER_HOST)")
	cmd.Flags().IntVar(&options.Port, "port", 0, "Port for the HTTP server. (Env: INTAKE_SERVER_PORT)")
	cmd.Flags().StringVar(&options.JWTSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: INTAKE_AUTH_JWT_SECRET)")
	cmd.Flags().BoolVar(&options.AuditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: INTAKE_LOGGING_AUDIT_ENABLED=true)")
	cmd.Flags().StringVar(&options.DriftCheckInterval, "drift-check-interval", "", "How often to check the store for schema drift, e.g. '1h' or '1d'; '0' disables. (Env: INTAKE_HOUSEKEEPING_DRIFT_CHECK_INTERVAL)")
}

// ensureJWTSecret generates and persists a signing secret on first start.
func ensureJWTSecret(cfgFile string, cfg *config.Config) error {
	if cfg.Auth.JWTSecret != "" {
		return nil
	}

	logging.Log.Info("Generating new random JWT secret...")
	newSecret, err := auth.GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.Auth.JWTSecret = newSecret
	if err := config.SaveConfig(cfgFile, cfg); err != nil {
		logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
	} else {
		logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
	}
	return nil
}

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer(globalOptions *GlobalOptions) error {
	cfg := globalOptions.Conf

	if err := ensureJWTSecret(globalOptions.CfgFilePath, cfg); err != nil {
		return err
	}
	if cfg.Auth.AdminPasswordHash == "" {
		logging.Log.Warn("No admin password configured; admin endpoints are unreachable. Run 'intakehub hash-password --save'.")
	}

	store, err := openStore(context.Background(), cfg, cfg.AutoRepairEnabled())
	if err != nil {
		return err
	}
	defer store.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Service Initialization
	intakeService, err := newIntakeService(cfg, store, m)
	if err != nil {
		return err
	}
	infoService := services.NewInfoService(globalOptions.Version, globalOptions.StartTime, cfg.Database.Backend)
	tokenService := auth.NewTokenService(cfg)
	housekeepingService := services.NewHousekeepingService(store, cfg.AutoRepairEnabled(), cfg.DriftCheckInterval, m)

	authMiddleware := auth.NewMiddleware(tokenService)

	housekeepingService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(
		infoService,
		intakeService,
		tokenService,
		housekeepingService,
	)

	r := api.SetupRouter(h, authMiddleware, reg)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logging.Log.Infof("Server starting on %s (backend: %s)", serverAddr, cfg.Database.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		housekeepingService.Stop()
		return fmt.Errorf("server failed to start: %w", err)
	}
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	housekeepingService.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
