package submission

import (
	"fmt"
	"strconv"
	"strings"
)

// Issue is a single field-scoped validation failure. Path segments are either
// strings (object keys) or ints (array indexes); the first segment names the
// control the issue belongs to.
type Issue struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// NewIssue builds an Issue. Segments that are neither string nor int are
// stored using their fmt representation.
func NewIssue(message string, path ...any) Issue {
	segments := make([]any, 0, len(path))
	for _, segment := range path {
		switch typed := segment.(type) {
		case string, int:
			segments = append(segments, typed)
		default:
			segments = append(segments, fmt.Sprint(typed))
		}
	}
	return Issue{Path: segments, Message: message}
}

// Field returns the first path segment as a control name. Issues without a
// path return an empty string.
func (i Issue) Field() string {
	if len(i.Path) == 0 {
		return ""
	}
	switch typed := i.Path[0].(type) {
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	default:
		return fmt.Sprint(typed)
	}
}

// PathString renders the path using dots for keys and brackets for indexes,
// e.g. "items[2].name".
func (i Issue) PathString() string {
	var b strings.Builder
	for idx, segment := range i.Path {
		if index, ok := segment.(int); ok {
			b.WriteString("[" + strconv.Itoa(index) + "]")
			continue
		}
		if idx > 0 {
			b.WriteByte('.')
		}
		b.WriteString(fmt.Sprint(segment))
	}
	return b.String()
}
