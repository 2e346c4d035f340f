package submission

type errorSinkKind int

const (
	errorSinkNone errorSinkKind = iota
	errorSinkCallback
	errorSinkElement
)

// TextTarget is a UI element whose text content the controller replaces.
type TextTarget interface {
	SetText(text string)
}

// ErrorSink receives error messages. Build one with ErrorCallback or
// ErrorElement; the zero value discards messages.
type ErrorSink struct {
	kind   errorSinkKind
	fn     func(Message)
	target TextTarget
}

// ErrorCallback delivers every Message, including clears, to fn.
func ErrorCallback(fn func(Message)) ErrorSink {
	if fn == nil {
		return ErrorSink{}
	}
	return ErrorSink{kind: errorSinkCallback, fn: fn}
}

// ErrorElement writes message text into target and empties it on clear.
func ErrorElement(target TextTarget) ErrorSink {
	if target == nil {
		return ErrorSink{}
	}
	return ErrorSink{kind: errorSinkElement, target: target}
}

func (s ErrorSink) report(msg Message) {
	switch s.kind {
	case errorSinkCallback:
		s.fn(msg)
	case errorSinkElement:
		if msg.Visible {
			s.target.SetText(msg.Value)
			return
		}
		s.target.SetText("")
	}
}

type busySinkKind int

const (
	busySinkNone busySinkKind = iota
	busySinkCallback
	busySinkDisable
	busySinkLabel
)

// BusySink receives busy transitions. The zero value applies no busy effects.
type BusySink struct {
	kind  busySinkKind
	fn    func(bool)
	label string
}

// BusyCallback hands busy transitions to fn; the caller owns all UI effects.
func BusyCallback(fn func(busy bool)) BusySink {
	if fn == nil {
		return BusySink{}
	}
	return BusySink{kind: busySinkCallback, fn: fn}
}

// BusyDisable disables every control while a submission is in flight.
func BusyDisable() BusySink {
	return BusySink{kind: busySinkDisable}
}

// BusyLabel disables every control and swaps the submit button label for
// label while a submission is in flight. The original label is restored
// verbatim.
func BusyLabel(label string) BusySink {
	return BusySink{kind: busySinkLabel, label: label}
}

// Configured reports whether the sink applies any effect.
func (s BusySink) Configured() bool {
	return s.kind != busySinkNone
}

// engage applies busy=true and returns the reversal. The reversal runs its
// effects at most once.
func (s BusySink) engage(snap *snapshot) (release func()) {
	var undo func()
	switch s.kind {
	case busySinkCallback:
		s.fn(true)
		undo = func() { s.fn(false) }
	case busySinkDisable, busySinkLabel:
		prior := make([]bool, len(snap.controls))
		for i, control := range snap.controls {
			prior[i] = control.Disabled()
			control.SetDisabled(true)
		}
		button := snap.submit
		original := ""
		swapped := s.kind == busySinkLabel && button != nil
		if swapped {
			original = button.Label()
			button.SetLabel(s.label)
		}
		undo = func() {
			for i, control := range snap.controls {
				control.SetDisabled(prior[i])
			}
			if swapped {
				button.SetLabel(original)
			}
		}
	default:
		return func() {}
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		undo()
	}
}
