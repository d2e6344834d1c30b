package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flex_report/internal/catalog"
	"flex_report/internal/config"
	"flex_report/internal/engine"
	"flex_report/internal/handlers"
	"flex_report/internal/logger"
	"flex_report/internal/metrics"
	"flex_report/internal/repository"
	"flex_report/internal/repository/db"
	"flex_report/internal/server"
	"flex_report/internal/service"

	"github.com/spf13/cobra"
)

var configDir string

func main() {
	root := &cobra.Command{
		Use:           "flex",
		Short:         "Turbine oil remaining useful life",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yml")

	root.AddCommand(serveCmd(), estimateCmd(), fluidsCmd(), equipmentCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// buildEstimator loads the reference tables named in cfg (embedded when empty).
func buildEstimator(cfg *config.Config, opts ...engine.Option) (*engine.Estimator, error) {
	fluids, err := catalog.LoadFluids(cfg.Catalog.FluidsPath)
	if err != nil {
		return nil, err
	}
	equipment, err := catalog.LoadEquipment(cfg.Catalog.EquipmentPath)
	if err != nil {
		return nil, err
	}
	return engine.NewEstimator(fluids, equipment, cfg.Engine, opts...)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if err := cfg.RequireAuth(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	estimator, err := buildEstimator(cfg, engine.WithCrossingObserver(metrics.ObserveCrossing))
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	log.Infow("catalogs_loaded",
		"fluids", len(estimator.ListKnownFluids()),
		"applications", len(estimator.ListApplications()),
		"arrhenius_factor", cfg.Engine.ArrheniusFactor(),
	)

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("sqlite_close_failed", "err", cerr)
		}
	}()

	services := service.NewService(service.Deps{
		Repos:     repository.NewRepository(conn),
		Estimator: estimator,
		Log:       log,
		Auth:      cfg.Auth,
		Batch:     cfg.Batch,
	})
	apiHandler := handlers.NewHandler(services, log, cfg.RateLimit)

	srv := server.New(cfg.Server)
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http_listening", "port", cfg.Port)
		errCh <- srv.Run(cfg.Port, apiHandler.InitRoutes())
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting_down")
	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}
