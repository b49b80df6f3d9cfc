package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"talhoes.dashboard.org/internal/app"
	"talhoes.dashboard.org/internal/restapi"
	"talhoes.dashboard.org/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, newLogger(opts.verbose))
		},
	}
}

// server is the assembled HTTP server together with what has to be released
// once it stops.
type server struct {
	*http.Server
	cleanup func()
}

func buildServer(opts *options, logger *slog.Logger) (*server, error) {
	manager, parcelsConfig, err := opts.loadManager(logger, true)
	if err != nil {
		return nil, err
	}

	application := &app.Application{
		Config:        opts.appConfig(),
		ParcelsConfig: parcelsConfig,
		Catalog:       parcelsConfig.Synth.Catalog,
		Logger:        logger,
		Manager:       manager,
	}

	api := restapi.NewRestAPI(application)
	webUI, err := webui.NewWebUI(application)
	if err != nil {
		api.Stop()
		manager.Shutdown()
		return nil, err
	}

	router := httprouter.New()
	api.SetRoutes(router)
	webUI.SetWebUIRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.port),
		Handler:      api.Handler(router),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &server{
		Server: srv,
		cleanup: func() {
			api.Stop()
			manager.Shutdown()
		},
	}, nil
}

// runServe blocks until ctx is cancelled or the listener fails, then shuts
// the server down gracefully.
func runServe(ctx context.Context, opts *options, logger *slog.Logger) error {
	srv, err := buildServer(opts, logger)
	if err != nil {
		return err
	}
	defer srv.cleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", srv.Addr, "env", opts.appConfig().Env.String(), "data", opts.dataPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
