package dom

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

var textPolicy = bluemonday.StrictPolicy()

// Element is a non-interactive region whose text content is replaced
// wholesale, such as a role="alert" message box.
type Element struct {
	role string

	mu     sync.RWMutex
	text   string
	writes int
}

var _ submission.TextTarget = (*Element)(nil)

// NewElement returns an empty element with the given ARIA role.
func NewElement(role string) *Element {
	return &Element{role: role}
}

// Role returns the ARIA role.
func (e *Element) Role() string {
	return e.role
}

// SetText replaces the text content. An empty string clears it.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	e.text = text
	e.writes++
	e.mu.Unlock()
}

// Text returns the raw text content.
func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// Empty reports whether the element has no content.
func (e *Element) Empty() bool {
	return e.Text() == ""
}

// Writes reports how many times the content was replaced.
func (e *Element) Writes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.writes
}

// HTML returns the content stripped of markup and escaped for embedding.
func (e *Element) HTML() string {
	return textPolicy.Sanitize(e.Text())
}
