/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "fmt"

// Result is the outcome of an engine call. A failed result never carries
// details, so callers cannot read figures from an action that did not apply.
type Result struct {
	ok      bool
	message string
	details any
}

// Succeed returns a successful result. details may be nil.
func Succeed(message string, details any) Result {
	return Result{ok: true, message: message, details: details}
}

// Fail returns a failed result with a human-readable reason.
func Fail(format string, args ...any) Result {
	return Result{message: fmt.Sprintf(format, args...)}
}

func (r Result) OK() bool {
	return r.ok
}

func (r Result) Message() string {
	return r.message
}

// Details returns the structured payload of a successful result, or nil.
func (r Result) Details() any {
	if !r.ok {
		return nil
	}

	return r.details
}
