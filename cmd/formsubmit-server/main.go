package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/internal/config"
	"github.com/goliatone/go-formsubmit/internal/demo"
	"github.com/goliatone/go-formsubmit/internal/logging"
	"github.com/goliatone/go-formsubmit/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML config file")
	definition := flag.String("definition", "", "form definition (YAML) or OpenAPI document; bundled login form if empty")
	operation := flag.String("operation", "", "OpenAPI operation id")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *definition, *operation); err != nil {
		fmt.Fprintf(os.Stderr, "formsubmit-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, definition, operation string) error {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return err
	}
	if definition != "" {
		cfg.Form.Definition = definition
	}
	if operation != "" {
		cfg.Form.Operation = operation
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	form, err := formsubmit.LoadForm(ctx, cfg.Form.Definition, cfg.Form.Operation)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return err
	}

	router, err := newRouter(routerConfig{
		form:     form,
		backend:  demo.NewBackend(cfg.Demo.Credentials(), cfg.Demo.Delay, logger.Named("backend")),
		logger:   logger,
		recorder: recorder,
		gatherer: registry,
		typed:    cfg.Form.Definition == "",
		settings: cfg.Form,
		maxBody:  cfg.HTTP.MaxBodyBytes,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server online", zap.String("addr", server.Addr), zap.String("form", form.OperationID))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
