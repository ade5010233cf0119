package gamepad

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultPollInterval = 2 * time.Millisecond
	DefaultWaitTimeout  = 100 * time.Millisecond
	DefaultBufferSize   = 64
)

// Engine enumerates controllers across both backends and streams state
// from one selected device. Either backend may be nil; it then contributes
// no devices. The zero value of the tuning fields selects the defaults.
type Engine struct {
	XInput      SlotAPI
	DirectInput EventAPI

	// Window is the native window handle handed to the event backend's
	// cooperative-level setup. Fakes ignore it; the real backend needs
	// one.
	Window uintptr

	// IsProxy skips event-backend devices whose product name marks them
	// as duplicates of a slot-backend device. Nil means
	// DefaultProxyFilter.
	IsProxy func(name string) bool

	PollInterval time.Duration // slot poll cadence
	WaitTimeout  time.Duration // event wait bound
	BufferSize   int           // event queue length
}

// Devices returns a fresh merged enumeration snapshot: connected slots in
// slot order, then event-backend devices in discovery order, indexed from
// zero. An unavailable backend contributes nothing; enumeration itself
// never fails.
func (e *Engine) Devices() []Device {
	var devs []Device

	if e.XInput != nil {
		for slot := 0; slot < e.XInput.SlotCount(); slot++ {
			if _, err := e.XInput.State(slot); err != nil {
				continue
			}
			devs = append(devs, Device{
				Kind: KindXInput,
				Slot: slot,
				Name: fmt.Sprintf("XInput Controller %d", slot),
			})
		}
	}

	if e.DirectInput != nil {
		infos, err := e.DirectInput.Devices()
		if err != nil {
			slog.Warn("event device enumeration failed", slog.Any("error", err))
		}
		isProxy := e.IsProxy
		if isProxy == nil {
			isProxy = DefaultProxyFilter
		}
		for _, info := range infos {
			if isProxy(info.Name) {
				slog.Debug("skipping proxy device", slog.String("name", info.Name))
				continue
			}
			devs = append(devs, Device{
				Kind: KindDirectInput,
				GUID: info.GUID,
				Name: info.Name,
			})
		}
	}

	for i := range devs {
		devs[i].Index = i
	}
	return devs
}

// Stream reads d until ctx is cancelled or the device is lost, handing
// each fresh snapshot to sink. Sink runs on the calling goroutine; the
// passed State is never reused. The outcome distinguishes a normal stop
// from a disconnection; OutcomeFailed pairs with a non-nil error
// (*SetupError for setup failures, ErrWaitFailed for a broken wait).
func (e *Engine) Stream(ctx context.Context, d Device, sink func(State)) (Outcome, error) {
	switch d.Kind {
	case KindXInput:
		if e.XInput == nil {
			return OutcomeFailed, &SetupError{Step: StepBackend, Err: fmt.Errorf("slot backend unavailable")}
		}
		return e.pollStream(ctx, d, sink)
	case KindDirectInput:
		if e.DirectInput == nil {
			return OutcomeFailed, &SetupError{Step: StepBackend, Err: fmt.Errorf("event backend unavailable")}
		}
		return e.eventStream(ctx, d, sink)
	}
	return OutcomeFailed, &SetupError{Step: StepBackend, Err: fmt.Errorf("unknown device kind %v", d.Kind)}
}
