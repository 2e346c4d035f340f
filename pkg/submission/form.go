package submission

import "context"

// ControlKind classifies form controls the way markup does.
type ControlKind string

const (
	KindInput    ControlKind = "input"
	KindTextArea ControlKind = "textarea"
	KindSelect   ControlKind = "select"
	KindCheckbox ControlKind = "checkbox"
	KindRadio    ControlKind = "radio"
	KindButton   ControlKind = "button"
	KindSubmit   ControlKind = "submit"
)

// IsButton reports button-like kinds; their values never reach FieldValues.
func (k ControlKind) IsButton() bool {
	return k == KindButton || k == KindSubmit
}

// IsToggle reports kinds whose value is only collected when checked.
func (k ControlKind) IsToggle() bool {
	return k == KindCheckbox || k == KindRadio
}

// Control is one interactive element of a form.
type Control interface {
	Name() string
	Kind() ControlKind
	Value() string
	Disabled() bool
	SetDisabled(disabled bool)
	Focus()
}

// Checkable is implemented by checkbox and radio controls.
type Checkable interface {
	Checked() bool
}

// Labeled is implemented by buttons whose visible label can be swapped while
// a submission is in flight.
type Labeled interface {
	Label() string
	SetLabel(label string)
}

// Form exposes the current controls in document order.
type Form interface {
	Controls() []Control
}

// Event is a native submit trigger.
type Event interface {
	PreventDefault()
	Form() Form
}

// Handler handles one submit trigger.
type Handler func(ctx context.Context, event Event) error

// SubmitTarget is anything submit listeners can be registered on. The
// returned function removes the listener.
type SubmitTarget interface {
	AddSubmitListener(handler Handler) (remove func())
}

// snapshot captures control references once per Handle call so focus and
// busy reversal operate on the same set even if the form changes meanwhile.
type snapshot struct {
	values   FieldValues
	controls []Control
	byName   map[string]Control
	submit   Labeled
}

func takeSnapshot(form Form) *snapshot {
	controls := form.Controls()
	snap := &snapshot{
		byName: make(map[string]Control, len(controls)),
	}
	for _, control := range controls {
		if control == nil {
			continue
		}
		snap.controls = append(snap.controls, control)

		kind := control.Kind()
		name := control.Name()
		if name != "" {
			if _, exists := snap.byName[name]; !exists {
				snap.byName[name] = control
			}
		}
		if kind == KindSubmit && snap.submit == nil {
			if labeled, ok := control.(Labeled); ok {
				snap.submit = labeled
			}
		}

		if name == "" || kind.IsButton() || control.Disabled() {
			continue
		}
		if kind.IsToggle() {
			checkable, ok := control.(Checkable)
			if !ok || !checkable.Checked() {
				continue
			}
		}
		snap.values.Set(name, control.Value())
	}
	return snap
}

// focus moves focus to the control named name, if present.
func (s *snapshot) focus(name string) bool {
	if name == "" {
		return false
	}
	control, ok := s.byName[name]
	if !ok {
		return false
	}
	control.Focus()
	return true
}
