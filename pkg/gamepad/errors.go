package gamepad

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected reports an empty slot or an unplugged device.
	ErrNotConnected = errors.New("device not connected")
	// ErrInputLost reports that the event backend lost access to the
	// device; re-acquiring usually recovers it.
	ErrInputLost = errors.New("input lost")
	// ErrNotAcquired reports an operation on a device that is not
	// currently acquired; re-acquiring usually recovers it.
	ErrNotAcquired = errors.New("device not acquired")
	// ErrWaitFailed reports that the wait primitive itself failed, as
	// opposed to timing out.
	ErrWaitFailed = errors.New("wait on device notification failed")
)

// transient reports whether err is one of the two recoverable
// event-backend conditions.
func transient(err error) bool {
	return errors.Is(err, ErrInputLost) || errors.Is(err, ErrNotAcquired)
}

// SetupStep names the stage of stream setup that failed.
type SetupStep string

const (
	StepBackend      SetupStep = "backend"
	StepOpen         SetupStep = "create device"
	StepConfigure    SetupStep = "configure"
	StepDataFormat   SetupStep = "data format"
	StepCoopLevel    SetupStep = "cooperative level"
	StepBufferSize   SetupStep = "buffer size"
	StepWaitObject   SetupStep = "wait object"
	StepNotification SetupStep = "notification"
	StepAcquire      SetupStep = "acquire"
)

// SetupError reports that a stream could not be started. No partial stream
// runs after a SetupError; everything acquired before the failing stage has
// been released.
type SetupError struct {
	Step SetupStep
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// setupError wraps err for the given step, keeping a more specific
// *SetupError supplied by the backend.
func setupError(step SetupStep, err error) *SetupError {
	var se *SetupError
	if errors.As(err, &se) {
		return se
	}
	return &SetupError{Step: step, Err: err}
}

// Outcome classifies how a stream ended.
type Outcome int

const (
	// OutcomeStopped is a normal stop: the context was cancelled.
	OutcomeStopped Outcome = iota
	// OutcomeDisconnected means the device reported permanent loss.
	OutcomeDisconnected
	// OutcomeFailed accompanies a non-nil error: setup or wait failure.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStopped:
		return "stopped"
	case OutcomeDisconnected:
		return "disconnected"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}
