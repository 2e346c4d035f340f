package httpform

import "errors"

var (
	// ErrBodyTooLarge is reported when the request body exceeds the limit.
	ErrBodyTooLarge = errors.New("httpform: request body too large")
	// ErrUnsupportedBody is reported for JSON bodies that are not objects.
	ErrUnsupportedBody = errors.New("httpform: body must be a JSON object")
)
