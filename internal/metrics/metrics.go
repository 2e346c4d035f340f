// Package metrics exposes submission lifecycle events as Prometheus
// instruments. A Recorder owns the collectors; Observer binds them to one
// form so controllers can report through submission.WithObserver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

const namespace = "formsubmit"

// Recorder holds the collectors shared by every form.
type Recorder struct {
	attempts    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inFlight    *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Settled submission attempts by form and result.",
			},
			[]string{"form", "result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Controller state transitions by form and target state.",
			},
			[]string{"form", "state"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "attempt_duration_seconds",
				Help:      "Time from submit event to settled result.",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"form", "result"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "attempts_in_flight",
				Help:      "Attempts currently validating or submitting.",
			},
			[]string{"form"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{r.attempts, r.transitions, r.duration, r.inFlight} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Observer returns a submission.Observer that labels events with form.
func (r *Recorder) Observer(form string) submission.Observer {
	return formObserver{form: form, recorder: r}
}

type formObserver struct {
	form     string
	recorder *Recorder
}

func (o formObserver) Transition(_ string, from, to submission.State) {
	o.recorder.transitions.WithLabelValues(o.form, string(to)).Inc()
	if from == submission.StateIdle && to != submission.StateIdle {
		o.recorder.inFlight.WithLabelValues(o.form).Inc()
	}
}

func (o formObserver) Settled(_ string, result submission.Result, elapsed time.Duration) {
	o.recorder.attempts.WithLabelValues(o.form, string(result)).Inc()
	o.recorder.duration.WithLabelValues(o.form, string(result)).Observe(elapsed.Seconds())
	o.recorder.inFlight.WithLabelValues(o.form).Dec()
}
