package gamepad

import "time"

// SlotAPI is a backend exposing a fixed number of numbered slots, queried
// by polling. It has no notification primitive. XInput is the canonical
// implementation; fakes implement it for tests.
type SlotAPI interface {
	// SlotCount reports how many slots the backend exposes.
	SlotCount() int
	// State fetches the current state of one slot. ErrNotConnected means
	// the slot is empty; during streaming any error means the device is
	// gone.
	State(slot int) (PadState, error)
}

// EventDeviceInfo identifies one device discovered by an event backend.
type EventDeviceInfo struct {
	GUID GUID
	Name string
}

// EventAPI is a backend with enumerated devices, buffered per-device event
// queues, and a waitable notification object. DirectInput is the canonical
// implementation.
type EventAPI interface {
	// Devices lists attached game controllers.
	Devices() ([]EventDeviceInfo, error)
	// Open creates an unconfigured handle for one discovered device.
	Open(guid GUID) (EventDevice, error)
}

// WaitStatus is the non-error result of EventDevice.Wait.
type WaitStatus int

const (
	WaitSignaled WaitStatus = iota
	WaitTimedOut
)

// EventDevice is one open event-backend device. Calls are made from a
// single goroutine in the order Configure, Acquire, then any of Wait,
// Drain, State and Acquire again, then Unacquire and Close.
type EventDevice interface {
	// Configure sets the joystick data shape, non-exclusive background
	// access against window, a buffered event queue of bufferSize entries,
	// and the notification object observed by Wait. Implementations should
	// return a *SetupError naming the stage that failed.
	Configure(window uintptr, bufferSize int) error
	// Acquire obtains (or re-obtains after transient loss) access to the
	// device.
	Acquire() error
	Unacquire() error
	// Wait blocks until the notification fires or timeout elapses. An
	// error means the wait primitive itself failed, not that it timed out.
	Wait(timeout time.Duration) (WaitStatus, error)
	// Drain removes events currently queued on the device, reporting how
	// many were taken. The queued events carry no data the engine reads;
	// they only signal that fresh state is available. ErrInputLost and
	// ErrNotAcquired report transient access loss.
	Drain() (int, error)
	// State fetches the full current state. ErrInputLost and
	// ErrNotAcquired report transient access loss; any other error means
	// the device is gone.
	State() (JoyState, error)
	// Close detaches the notification binding, releases the wait object,
	// and frees the device handle, in that order. It must be safe to call
	// after a failed Configure.
	Close() error
}
