package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogo-api/internal/config"
	"catalogo-api/internal/database"
	"catalogo-api/internal/logger"
	"catalogo-api/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// app carries what every subcommand needs
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func (a *app) openDatabase(ctx context.Context) (database.Service, error) {
	dbService, err := database.New(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}

	a.log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))
	return dbService, nil
}

func (a *app) serve(cmd *cobra.Command, args []string) error {
	a.log.Info("Starting catalog API",
		zap.String("env", a.cfg.Server.Env),
		zap.String("port", a.cfg.Server.Port),
	)

	dbService, err := a.openDatabase(cmd.Context())
	if err != nil {
		return err
	}

	// Run migrations
	if err := database.RunMigrations(dbService.DB(), a.cfg.Database.MigrationsDir, a.log); err != nil {
		dbService.Close()
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbService.DB(), a.cfg.Database.Database),
	)

	// Create server
	srv, err := server.NewServer(a.cfg, a.log, dbService, registry)
	if err != nil {
		dbService.Close()
		return err
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, a.log, done)

	a.log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	a.log.Info("Graceful shutdown complete")
	return nil
}

func (a *app) migrateUp(cmd *cobra.Command, args []string) error {
	dbService, err := a.openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer dbService.Close()

	return database.RunMigrations(dbService.DB(), a.cfg.Database.MigrationsDir, a.log)
}

func (a *app) migrateStatus(cmd *cobra.Command, args []string) error {
	dbService, err := a.openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer dbService.Close()

	return database.MigrationStatus(dbService.DB(), a.cfg.Database.MigrationsDir)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogo-api",
		Short:         "Products and clients catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.serve,
	}
	root.PersistentFlags().StringVar(&a.cfg.Database.MigrationsDir, "migrations-dir", a.cfg.Database.MigrationsDir, "Directory holding the SQL migrations (env MIGRATIONS_DIR)")
	root.PersistentFlags().StringVar(&a.cfg.Server.Port, "port", a.cfg.Server.Port, "HTTP port (env SERVER_PORT)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and serve the HTTP API",
		RunE:  a.serve,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema operations",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE:  a.migrateUp,
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE:  a.migrateStatus,
	})

	root.AddCommand(serveCmd)
	root.AddCommand(migrateCmd)
	return root
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	root := newRootCommand(&app{cfg: cfg, log: log})
	if err := root.Execute(); err != nil {
		log.Error("Command failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
