package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"diabetescheck/db"
	"diabetescheck/feedback"
	qhttp "diabetescheck/http"
	"diabetescheck/i18n"
	"diabetescheck/ml"
	"diabetescheck/monitoring"
	"diabetescheck/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP form API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := db.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver), zap.String("path", cfg.Database.Path))

	model, err := ml.NewReloadable(cfg.Model.Type, cfg.Model.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	sessions, err := session.NewStore(cfg.Session.Capacity)
	if err != nil {
		return err
	}

	metrics := monitoring.NewMetrics()
	var recorder *feedback.Recorder
	hub := monitoring.NewHub(logger, func(ctx context.Context) (interface{}, error) {
		return recorder.Report(ctx)
	})
	recorder = feedback.NewRecorder(sessions, repo, logger, metrics, hub)

	if report, err := recorder.Report(ctx); err == nil {
		metrics.SetAccuracy(report.Accuracy)
		logger.Info("feedback history loaded", zap.Int("records", report.Total), zap.Float64("accuracy", report.Accuracy))
	} else {
		logger.Warn("could not compute initial accuracy", zap.Error(err))
	}

	api := qhttp.NewAPI(qhttp.Options{
		Predictor: ml.NewPredictor(model, metrics, logger),
		Sessions:  sessions,
		Recorder:  recorder,
		Stream:    hub,
		Metrics:   metrics,
		Password:  cfg.Auth.Password,
		Locale:    i18n.Parse(cfg.Locale),
		Logger:    logger,
	})
	if cfg.Auth.Password == "" {
		logger.Warn("no access password configured, the form is open")
	}

	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, api)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	if cfg.Model.Watch {
		g.Go(func() error {
			return watchModel(ctx, model, logger)
		})
	}
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return server.Stop(context.Background())
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("exiting")
	return nil
}

type modelWatcher interface {
	Watch(ctx context.Context) error
}

// watchModel runs the hot-reload watcher. Its failure only disables reloads;
// the form keeps serving the model already loaded.
func watchModel(ctx context.Context, w modelWatcher, logger *zap.Logger) error {
	if err := w.Watch(ctx); err != nil {
		logger.Error("model watcher stopped, hot reload disabled", zap.Error(err))
	}
	return nil
}
