// Package submission implements the form submission lifecycle: it intercepts a
// submit event, validates the collected field values, invokes the submit
// function only when validation passes, and drives the error and busy sinks
// around that sequence.
//
// The controller is environment agnostic. Forms, controls and events are
// described by the small interfaces in form.go; pkg/dom provides an in-memory
// implementation, pkg/renderers/tui a terminal one and pkg/httpform a
// server-side one.
//
// A single call to Handle runs, in order:
//
//	preventDefault -> clear error -> snapshot -> validate
//	  invalid: focus first issue field, report its message
//	  valid:   busy on -> submit -> busy off -> report outcome
//
// Only validation issues and submit outcomes are handled locally. Anything
// else (validator errors, missing forms, panics) is returned or propagated to
// the caller.
package submission
