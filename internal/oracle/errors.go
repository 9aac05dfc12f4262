package oracle

import "fmt"

// APICallError represents a failure calling the model provider.
type APICallError struct {
	Operation string
	Cause     error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("model call failed during %s: %v", e.Operation, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response that passed schema validation but could
// not be decoded, or that violated a constraint the schema cannot express.
type ParseError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unusable %s response: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("unusable %s response: %s", e.Operation, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
