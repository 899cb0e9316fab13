// Package envelope builds the uniform response wrapper every endpoint
// returns. Construction is pure: no counters, no shared state.
package envelope

import "time"

const defaultSuccessMessage = "Operation completed successfully"

// Envelope is the wire-level response contract. Exactly one of Data or
// Error is set, and Timestamp is taken at construction time.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Error is the failure payload inside an envelope.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Success wraps data in a success envelope. An empty message falls back to
// a generic one.
func Success(data any, message string) Envelope {
	if message == "" {
		message = defaultSuccessMessage
	}
	return Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	}
}

// Failure builds a failure envelope. The message is duplicated at the top
// level for callers that do not descend into the error object.
func Failure(message, code string, details any) Envelope {
	return Envelope{
		Success: false,
		Message: message,
		Error: &Error{
			Message: message,
			Code:    code,
			Details: details,
		},
		Timestamp: now(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
