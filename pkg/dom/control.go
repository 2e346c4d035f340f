package dom

import (
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// Control is a single form control. All accessors are goroutine-safe.
type Control struct {
	form *Form

	mu        sync.RWMutex
	name      string
	kind      submission.ControlKind
	inputType string
	value     string
	label     string
	options   []string
	required  bool
	disabled  bool
	checked   bool
}

var (
	_ submission.Control   = (*Control)(nil)
	_ submission.Checkable = (*Control)(nil)
	_ submission.Labeled   = (*Control)(nil)
)

// ControlOption configures a control when it is added to a form.
type ControlOption func(*Control)

// WithType sets the input type attribute (text, email, password, number).
func WithType(inputType string) ControlOption {
	return func(c *Control) {
		c.inputType = inputType
	}
}

// WithLabel sets the human-facing label.
func WithLabel(label string) ControlOption {
	return func(c *Control) {
		c.label = label
	}
}

// WithOptions sets the choices of a select control.
func WithOptions(options ...string) ControlOption {
	return func(c *Control) {
		c.options = append([]string(nil), options...)
	}
}

// WithRequired marks the control as required. It is a rendering hint only;
// validation belongs to the validator.
func WithRequired() ControlOption {
	return func(c *Control) {
		c.required = true
	}
}

// WithDisabled starts the control disabled.
func WithDisabled() ControlOption {
	return func(c *Control) {
		c.disabled = true
	}
}

// WithChecked starts a checkbox or radio checked.
func WithChecked() ControlOption {
	return func(c *Control) {
		c.checked = true
	}
}

// Name returns the control name.
func (c *Control) Name() string {
	return c.name
}

// Kind returns the control kind.
func (c *Control) Kind() submission.ControlKind {
	return c.kind
}

// Type returns the input type attribute.
func (c *Control) Type() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inputType
}

// Value returns the current value.
func (c *Control) Value() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// SetValue replaces the current value.
func (c *Control) SetValue(value string) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// Label returns the visible label (button text for buttons).
func (c *Control) Label() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.label
}

// SetLabel replaces the visible label.
func (c *Control) SetLabel(label string) {
	c.mu.Lock()
	c.label = label
	c.mu.Unlock()
}

// Options returns the choices of a select control.
func (c *Control) Options() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.options...)
}

// Required reports the required rendering hint.
func (c *Control) Required() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.required
}

// Disabled reports whether the control is disabled.
func (c *Control) Disabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disabled
}

// SetDisabled toggles the disabled flag.
func (c *Control) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

// Checked reports whether a checkbox or radio is checked.
func (c *Control) Checked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checked
}

// SetChecked toggles a checkbox. Checking a radio unchecks its siblings.
func (c *Control) SetChecked(checked bool) {
	if checked && c.kind == submission.KindRadio && c.form != nil {
		c.form.uncheckRadios(c.name)
	}
	c.mu.Lock()
	c.checked = checked
	c.mu.Unlock()
}

// Focus makes this the form's focused control.
func (c *Control) Focus() {
	if c.form == nil {
		return
	}
	c.form.setFocus(c)
}

// Focused reports whether this control currently holds focus.
func (c *Control) Focused() bool {
	if c.form == nil {
		return false
	}
	focused, ok := c.form.Focused()
	return ok && focused == c
}
