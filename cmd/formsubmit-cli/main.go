package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/internal/config"
	"github.com/goliatone/go-formsubmit/internal/demo"
	"github.com/goliatone/go-formsubmit/internal/logging"
	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/renderers/tui"
	"github.com/goliatone/go-formsubmit/pkg/submission"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	definition := flag.String("definition", "", "form definition (YAML) or OpenAPI document; bundled login form if empty")
	operation := flag.String("operation", "", "OpenAPI operation id")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, *configPath, *definition, *operation, tui.NewSurveyDriver(os.Stdout))
	switch {
	case err == nil:
	case errors.Is(err, tui.ErrAborted):
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "formsubmit-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, definition, operation string, driver tui.PromptDriver) error {
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

	// Console logging would interleave with the prompts; only the file sink
	// is kept.
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: "json",
		File:   cfg.Log.File,
		Output: io.Discard,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	form, err := formsubmit.LoadForm(ctx, cfg.Form.Definition, cfg.Form.Operation)
	if err != nil {
		return err
	}

	busyLabel := cfg.Form.BusyLabel
	if form.BusyLabel != "" {
		busyLabel = form.BusyLabel
	}
	page := dom.FromModel(form)
	session, err := tui.NewSession(page,
		tui.WithPromptDriver(driver),
		tui.WithMaxAttempts(cfg.Form.MaxAttempts),
		tui.WithBusyLabel(busyLabel),
		tui.WithSuccessMessage("Signed in"),
	)
	if err != nil {
		return err
	}

	backend := demo.NewBackend(cfg.Demo.Credentials(), cfg.Demo.Delay, logger.Named("backend"))
	ctrl, err := submission.New(submission.Config[map[string]any]{
		Validator: validation.Model(form),
		OnSubmit:  backend.SubmitValues,
		OnError:   session.ErrorSink(),
		OnBusy:    session.BusySink(),
	}, submission.WithLogger(logger))
	if err != nil {
		return err
	}
	attachment := ctrl.Attach(page)
	defer attachment.Detach()

	report, err := session.Run(ctx)
	logger.Info("session finished",
		zap.Int("attempts", report.Attempts),
		zap.Bool("accepted", report.Accepted),
		zap.Error(err),
	)
	return err
}
