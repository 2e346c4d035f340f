package dom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// ErrUnknownControl is returned by Click when no control has the given name.
var ErrUnknownControl = errors.New("dom: unknown control")

type listener struct {
	id      uint64
	handler submission.Handler
}

// Form is an ordered set of controls with submit listeners and an alert
// element for error output.
type Form struct {
	name  string
	alert *Element

	mu        sync.Mutex
	controls  []*Control
	listeners []listener
	nextID    uint64
	focused   *Control
}

var (
	_ submission.Form         = (*Form)(nil)
	_ submission.SubmitTarget = (*Form)(nil)
)

// New returns an empty form.
func New(name string) *Form {
	return &Form{
		name:  name,
		alert: NewElement("alert"),
	}
}

// Name returns the form name.
func (f *Form) Name() string {
	return f.name
}

// Alert returns the element reserved for error output.
func (f *Form) Alert() *Element {
	return f.alert
}

// Add appends a control of the given kind.
func (f *Form) Add(kind submission.ControlKind, name string, opts ...ControlOption) *Control {
	control := &Control{
		form: f,
		name: name,
		kind: kind,
	}
	if kind.IsToggle() {
		control.value = "on"
	}
	for _, opt := range opts {
		if opt != nil {
			opt(control)
		}
	}

	f.mu.Lock()
	f.controls = append(f.controls, control)
	f.mu.Unlock()
	return control
}

// AddInput appends a text-like input holding value.
func (f *Form) AddInput(name, value string, opts ...ControlOption) *Control {
	control := f.Add(submission.KindInput, name, append([]ControlOption{WithType("text")}, opts...)...)
	control.SetValue(value)
	return control
}

// AddTextArea appends a textarea holding value.
func (f *Form) AddTextArea(name, value string, opts ...ControlOption) *Control {
	control := f.Add(submission.KindTextArea, name, opts...)
	control.SetValue(value)
	return control
}

// AddSelect appends a select with the given choices; value selects one.
func (f *Form) AddSelect(name, value string, choices []string, opts ...ControlOption) *Control {
	control := f.Add(submission.KindSelect, name, append([]ControlOption{WithOptions(choices...)}, opts...)...)
	control.SetValue(value)
	return control
}

// AddCheckbox appends a checkbox whose submitted value is "on".
func (f *Form) AddCheckbox(name string, checked bool, opts ...ControlOption) *Control {
	if checked {
		opts = append(opts, WithChecked())
	}
	return f.Add(submission.KindCheckbox, name, opts...)
}

// AddButton appends a plain button.
func (f *Form) AddButton(name, label string, opts ...ControlOption) *Control {
	return f.Add(submission.KindButton, name, append([]ControlOption{WithLabel(label)}, opts...)...)
}

// AddSubmit appends a submit button.
func (f *Form) AddSubmit(label string, opts ...ControlOption) *Control {
	return f.Add(submission.KindSubmit, "", append([]ControlOption{WithLabel(label)}, opts...)...)
}

// Controls returns the controls in document order.
func (f *Form) Controls() []submission.Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]submission.Control, 0, len(f.controls))
	for _, control := range f.controls {
		out = append(out, control)
	}
	return out
}

// Elements returns the concrete controls in document order.
func (f *Form) Elements() []*Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Control(nil), f.controls...)
}

// Control returns the first control named name.
func (f *Form) Control(name string) (*Control, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, control := range f.controls {
		if control.name == name {
			return control, true
		}
	}
	return nil, false
}

// SubmitButton returns the first submit button.
func (f *Form) SubmitButton() (*Control, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, control := range f.controls {
		if control.kind == submission.KindSubmit {
			return control, true
		}
	}
	return nil, false
}

// Focused returns the control holding focus.
func (f *Form) Focused() (*Control, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused, f.focused != nil
}

// Blur drops focus.
func (f *Form) Blur() {
	f.mu.Lock()
	f.focused = nil
	f.mu.Unlock()
}

func (f *Form) setFocus(control *Control) {
	f.mu.Lock()
	f.focused = control
	f.mu.Unlock()
}

func (f *Form) uncheckRadios(name string) {
	for _, control := range f.Elements() {
		if control.kind == submission.KindRadio && control.name == name {
			control.mu.Lock()
			control.checked = false
			control.mu.Unlock()
		}
	}
}

// AddSubmitListener registers handler for submit events and returns its
// remover. The remover is safe to call more than once.
func (f *Form) AddSubmitListener(handler submission.Handler) func() {
	if handler == nil {
		return func() {}
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, listener{id: id, handler: handler})
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, l := range f.listeners {
			if l.id == id {
				f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners reports how many submit listeners are registered.
func (f *Form) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

// Submit dispatches a submit event to every listener in registration order,
// regardless of control state (like requestSubmit). Listener errors are
// joined and returned.
func (f *Form) Submit(ctx context.Context) (*SubmitEvent, error) {
	f.mu.Lock()
	listeners := append([]listener(nil), f.listeners...)
	f.mu.Unlock()

	event := &SubmitEvent{form: f}
	var errs []error
	for _, l := range listeners {
		if err := l.handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return event, errors.Join(errs...)
}

// Click activates the named button the way a user would: disabled buttons do
// nothing and report false. Clicking a submit button dispatches a submit
// event. An empty name targets the first submit button.
func (f *Form) Click(ctx context.Context, name string) (bool, error) {
	var (
		control *Control
		ok      bool
	)
	if name == "" {
		control, ok = f.SubmitButton()
	} else {
		control, ok = f.Control(name)
	}
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
	if control.Disabled() {
		return false, nil
	}
	if control.Kind() != submission.KindSubmit {
		return true, nil
	}
	_, err := f.Submit(ctx)
	return true, err
}

// SubmitEvent is the event handed to submit listeners.
type SubmitEvent struct {
	form      *Form
	prevented atomic.Bool
}

var _ submission.Event = (*SubmitEvent)(nil)

// PreventDefault suppresses the default navigation.
func (e *SubmitEvent) PreventDefault() {
	e.prevented.Store(true)
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *SubmitEvent) DefaultPrevented() bool {
	return e.prevented.Load()
}

// Form returns the submitting form.
func (e *SubmitEvent) Form() submission.Form {
	if e.form == nil {
		return nil
	}
	return e.form
}
