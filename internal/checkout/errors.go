package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCaptureFailed      = errors.New("photo capture failed")
	ErrCaptureUnavailable = errors.New("camera unavailable")
	ErrCleanupFailed      = errors.New("photo cleanup failed")
	ErrCaptureInProgress  = errors.New("capture already in progress")
	ErrFlowAbandoned      = errors.New("checkout flow was abandoned")
)

// TransitionError is returned when an operation is not accepted in the current state.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("checkout: cannot %s in state %s", e.Op, e.From)
}
