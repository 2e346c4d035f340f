// Package httpform serves a form model over HTTP. Every POST builds a fresh
// dom.Form from the model and the posted values, runs it through a
// submission controller and replies with the controller's feedback as JSON:
//
//	{"message": "Email is not formatted correctly", "timestamp": 1700000000000,
//	 "focus": "email", "accepted": false, "html": "Email is not formatted correctly"}
//
// Accepted submissions reply 200; invalid, refused and failed ones reply 422
// with the message to show. Unexpected controller errors reply 500.
package httpform
