package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit/internal/config"
	"github.com/goliatone/go-formsubmit/internal/demo"
	"github.com/goliatone/go-formsubmit/internal/metrics"
	"github.com/goliatone/go-formsubmit/pkg/httpform"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// routerConfig wires the server. typed selects the struct validator bound to
// demo.Credentials; other definitions validate generically from the model.
type routerConfig struct {
	form     model.FormModel
	backend  *demo.Backend
	logger   *zap.Logger
	recorder *metrics.Recorder
	gatherer prometheus.Gatherer
	typed    bool
	settings config.Form
	maxBody  int64
}

// newRouter mounts:
//
//	GET  /healthz        liveness
//	GET  /forms/{id}     the form model as JSON
//	POST /forms/{id}     submission endpoint
//	GET  /metrics        Prometheus exposition
func newRouter(cfg routerConfig) (http.Handler, error) {
	opts := []httpform.Option{
		httpform.WithLogger(cfg.logger.Named("httpform")),
		httpform.WithObserver(cfg.recorder.Observer(cfg.form.OperationID)),
		httpform.WithBusyLabel(cfg.settings.BusyLabel),
		httpform.WithMaxBodyBytes(cfg.maxBody),
	}

	var (
		submit http.Handler
		err    error
	)
	if cfg.typed {
		submit, err = httpform.New(cfg.form, validation.Struct[demo.Credentials](), cfg.backend.Login, opts...)
	} else {
		submit, err = httpform.New(cfg.form, validation.Model(cfg.form), cfg.backend.SubmitValues, opts...)
	}
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))

	r.Route("/forms/{id}", func(r chi.Router) {
		r.Use(knownForm(cfg.form.OperationID))
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_ = json.NewEncoder(w).Encode(cfg.form)
		})
		r.Post("/", submit.ServeHTTP)
	})
	return r, nil
}

func knownForm(id string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "id") != id {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
