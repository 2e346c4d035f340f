package httpform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// Reply is the JSON body returned for handled submissions.
type Reply struct {
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Focus     string `json:"focus,omitempty"`
	Accepted  bool   `json:"accepted"`
	HTML      string `json:"html,omitempty"`
}

type errorReply struct {
	Error string `json:"error"`
}

// Handler serves one form model.
type Handler[T any] struct {
	form      model.FormModel
	validator submission.Validator[T]
	submit    submission.SubmitFunc[T]
	opts      options
}

var _ http.Handler = (*Handler[struct{}])(nil)

// New returns a Handler. The validator and submit function are shared by
// every request.
func New[T any](form model.FormModel, validator submission.Validator[T], submit submission.SubmitFunc[T], opts ...Option) (*Handler[T], error) {
	if validator == nil {
		return nil, submission.ErrValidatorRequired
	}
	if submit == nil {
		return nil, submission.ErrSubmitRequired
	}
	resolved := options{
		logger:       zap.NewNop(),
		now:          time.Now,
		maxBodyBytes: defaultMaxBodyBytes,
		busyLabel:    form.BusyLabel,
	}
	if resolved.busyLabel == "" {
		resolved.busyLabel = defaultBusyLabel
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}
	return &Handler[T]{form: form, validator: validator, submit: submit, opts: resolved}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.opts.logger.With(zap.String("form", h.form.OperationID))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorReply{Error: "method not allowed"})
		return
	}

	values, err := readValues(w, r, h.opts.maxBodyBytes)
	if err != nil {
		log.Debug("unreadable form body", zap.Error(err))
		status := http.StatusBadRequest
		if errors.Is(err, ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorReply{Error: err.Error()})
		return
	}

	form := dom.FromModel(h.form, dom.WithValues(values))
	rec := &recorder{next: h.opts.observer}
	ctrl, err := submission.New(submission.Config[T]{
		Validator: h.validator,
		OnSubmit:  h.submit,
		OnError: submission.ErrorCallback(func(msg submission.Message) {
			rec.setMessage(msg)
			form.Alert().SetText(msg.Value)
		}),
		OnBusy: submission.BusyLabel(h.opts.busyLabel),
	},
		submission.WithLogger(log),
		submission.WithObserver(rec),
		submission.WithClock(h.opts.now),
	)
	if err != nil {
		log.Error("controller setup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorReply{Error: "internal error"})
		return
	}

	attachment := ctrl.Attach(form)
	defer attachment.Detach()

	if _, err := form.Submit(r.Context()); err != nil {
		log.Error("form submission failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorReply{Error: "internal error"})
		return
	}

	msg, result := rec.snapshot()
	reply := Reply{
		Timestamp: msg.Timestamp,
		Accepted:  result == submission.ResultAccepted,
		HTML:      form.Alert().HTML(),
	}
	if msg.Visible {
		reply.Message = msg.Value
	}
	if focused, ok := form.Focused(); ok {
		reply.Focus = focused.Name()
	}

	status := http.StatusOK
	if !reply.Accepted {
		status = http.StatusUnprocessableEntity
	}
	log.Debug("form handled", zap.String("result", string(result)), zap.Int("status", status))
	writeJSON(w, status, reply)
}

// recorder keeps the last message and result of one request and forwards
// lifecycle events.
type recorder struct {
	next submission.Observer

	mu      sync.Mutex
	message submission.Message
	result  submission.Result
}

func (r *recorder) setMessage(msg submission.Message) {
	r.mu.Lock()
	r.message = msg
	r.mu.Unlock()
}

func (r *recorder) snapshot() (submission.Message, submission.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message, r.result
}

func (r *recorder) Transition(attempt string, from, to submission.State) {
	if r.next != nil {
		r.next.Transition(attempt, from, to)
	}
}

func (r *recorder) Settled(attempt string, result submission.Result, elapsed time.Duration) {
	r.mu.Lock()
	r.result = result
	r.mu.Unlock()
	if r.next != nil {
		r.next.Settled(attempt, result, elapsed)
	}
}

// readValues accepts urlencoded, multipart and JSON object bodies.
func readValues(w http.ResponseWriter, r *http.Request, limit int64) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSON(r.Body)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, bodyError(err)
		}
		return r.PostForm, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		return r.PostForm, nil
	}
}

func readJSON(body io.Reader) (url.Values, error) {
	var payload map[string]any
	decoder := json.NewDecoder(body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, bodyError(err)
	}
	if payload == nil {
		return nil, ErrUnsupportedBody
	}

	values := make(url.Values, len(payload))
	for name, raw := range payload {
		items, ok := raw.([]any)
		if !ok {
			items = []any{raw}
		}
		for _, item := range items {
			text, keep, err := jsonScalar(item)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q", err, name)
			}
			if keep {
				values.Add(name, text)
			}
		}
	}
	return values, nil
}

// jsonScalar renders a JSON value the way a browser would submit it. false
// and null are omitted like unchecked boxes.
func jsonScalar(value any) (string, bool, error) {
	switch typed := value.(type) {
	case nil:
		return "", false, nil
	case bool:
		if !typed {
			return "", false, nil
		}
		return "on", true, nil
	case string:
		return typed, true, nil
	case json.Number:
		return typed.String(), true, nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true, nil
	default:
		return "", false, ErrUnsupportedBody
	}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrBodyTooLarge
	}
	return fmt.Errorf("httpform: read body: %w", err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
