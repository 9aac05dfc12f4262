package workflow

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when an event arrives while a collaborator call is
// outstanding. The caller retries after the call settles.
var ErrBusy = errors.New("an operation is already in flight")

// TransitionError reports an event dispatched from a step that does not
// permit it.
type TransitionError struct {
	Event string
	Step  Step
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not allowed at step %q", e.Event, e.Step)
}

// RejectionError reports input rejected before any collaborator call or
// state change, such as a too-short syllabus or an unknown domain.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}
