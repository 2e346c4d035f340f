// Package dom is an in-memory form tree that implements the submission
// interfaces: forms own ordered controls, an alert element and a list of
// submit listeners. Every control guards its own state, so a submission in
// flight on one goroutine and user interaction on another never race.
//
// It is the reference environment for the submission controller and the
// backing store for the terminal and HTTP environments.
package dom
