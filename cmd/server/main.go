/*
main.go - Application entry point

PURPOSE:
  Command-line entry for the workforce engine. The serve command runs the
  HTTP API; simulate and seed work directly against the database.

COMMANDS:
  serve      Start the HTTP API (default when no command is given)
  simulate   Run one what-if simulation and print the result as JSON
  seed       Replace the stored dataset with a demo or a YAML/JSON file

STARTUP SEQUENCE (serve):
  1. Resolve configuration (file, .env, environment, flags)
  2. Initialize SQLite store
  3. Seed the configured demo when the store is empty
  4. Build the analysis model and start the refresh scheduler
  5. Start server with graceful shutdown

PERSISTENT FLAGS:
  --config     YAML configuration file
  --env-file   dotenv file (default: .env, ignored when missing)
  --db         SQLite database path, ":memory:" for in-memory
  --port       HTTP server port
  --log-level  trace, debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the refresh scheduler
  4. Close database connection

EXAMPLES:
  ./server serve --db=./data/workforce.db
  ./server seed --demo=talent-shortage
  ./server seed --file=./industries.yaml
  ./server simulate --industry=IT --year=2026 --attrition=-5

SEE ALSO:
  - commands.go: simulate and seed
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/workforce-engine/api"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/dataset"
	"github.com/warp/workforce-engine/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

// globalFlags are shared by every command.
type globalFlags struct {
	configFile string
	envFile    string
	dbPath     string
	port       int
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	serve := newServeCmd(flags)
	root := &cobra.Command{
		Use:           "server",
		Short:         "Workforce risk analytics and what-if simulation engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          serve.RunE,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path (overrides config)")
	pf.IntVar(&flags.port, "port", 0, "HTTP server port (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (overrides config)")

	root.AddCommand(serve, newSimulateCmd(flags), newSeedCmd(flags))
	return root
}

// loadConfig resolves configuration and applies flag overrides on top.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configFile, flags.envFile)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("db") {
		cfg.DBPath = flags.dbPath
	}
	if pf.Changed("port") {
		cfg.Port = flags.port
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.SetLevel(cfg.Level())
	return cfg, nil
}

// =============================================================================
// SERVE
// =============================================================================

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	log := logrus.WithField("component", "main")

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, cfg.AnalysisOptions())

	if err := seedIfEmpty(context.Background(), handler, cfg.SeedDemo); err != nil {
		log.WithError(err).Warn("failed to seed demo dataset")
	}
	if err := handler.Refresh(context.Background()); err != nil {
		log.WithError(err).Warn("failed to build analysis model")
	}

	scheduler := api.NewRefreshScheduler(handler, cfg.RefreshInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler, cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port": cfg.Port,
			"db":   cfg.DBPath,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// seedIfEmpty loads the named demo when the store holds no records. An
// empty name disables seeding.
func seedIfEmpty(ctx context.Context, h *api.Handler, demo string) error {
	if demo == "" {
		return nil
	}
	records, err := h.Store.ListRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		return nil
	}

	doc, err := dataset.LoadDemo(demo)
	if err != nil {
		return err
	}
	return h.ApplyDataset(ctx, demo, doc)
}
