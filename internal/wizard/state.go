// Package wizard sequences one validation session: file choice, category
// choice, validation trigger and result display.
package wizard

import (
	"errors"
	"fmt"
)

type State string

const (
	StateSelectingFile     State = "selecting_file"
	StateSelectingCategory State = "selecting_category"
	StateReadyToValidate   State = "ready_to_validate"
	StateValidating        State = "validating"
	StateResults           State = "results"
)

// OthersCategory is the catch-all key whose selection requires a free-text
// description before validation can start.
const OthersCategory = "others"

var (
	ErrInvalidTransition  = errors.New("invalid wizard transition")
	ErrValidationInFlight = errors.New("validation already in progress")
	ErrInvalidFile        = errors.New("invalid file")
	ErrInvalidInput       = errors.New("invalid input")
)

// TransitionError reports an action attempted from a state that does not
// allow it.
type TransitionError struct {
	From   State
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
