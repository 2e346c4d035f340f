package submission

import "sync"

// Attachment is a registered submit listener.
type Attachment struct {
	once   sync.Once
	remove func()
}

// Attach registers handler on target's submit trigger. It is only needed in
// environments without declarative event binding.
func Attach(target SubmitTarget, handler Handler) *Attachment {
	if target == nil || handler == nil {
		return &Attachment{}
	}
	return &Attachment{remove: target.AddSubmitListener(handler)}
}

// Detach removes the listener. Calling it more than once is a no-op.
func (a *Attachment) Detach() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		if a.remove != nil {
			a.remove()
		}
	})
}
