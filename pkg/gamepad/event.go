package gamepad

import (
	"context"
	"fmt"
	"log/slog"
)

// eventStream opens, configures and acquires the selected event-backend
// device, runs the wait loop, and releases everything on the way out. The
// release order on every exit path is unacquire, then the device's own
// teardown (notification binding, wait object, handle).
func (e *Engine) eventStream(ctx context.Context, d Device, sink func(State)) (Outcome, error) {
	bufSize := e.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	dev, err := e.DirectInput.Open(d.GUID)
	if err != nil {
		return OutcomeFailed, setupError(StepOpen, err)
	}
	if err := dev.Configure(e.Window, bufSize); err != nil {
		dev.Close()
		return OutcomeFailed, setupError(StepConfigure, err)
	}
	if err := dev.Acquire(); err != nil {
		dev.Close()
		return OutcomeFailed, setupError(StepAcquire, err)
	}

	outcome, err := e.eventLoop(ctx, dev, sink)

	dev.Unacquire()
	if cerr := dev.Close(); cerr != nil {
		slog.Warn("device close failed", slog.Any("error", cerr))
	}
	return outcome, err
}

// eventLoop waits on the device notification with a bounded timeout, so
// cancellation and disconnects are noticed even when the device is idle.
// Buffered events are drained only to reset the notification; the emitted
// snapshot always comes from a full-state fetch.
func (e *Engine) eventLoop(ctx context.Context, dev EventDevice, sink func(State)) (Outcome, error) {
	timeout := e.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	for {
		if ctx.Err() != nil {
			return OutcomeStopped, nil
		}

		status, err := dev.Wait(timeout)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("%w: %v", ErrWaitFailed, err)
		}

		switch status {
		case WaitSignaled:
			drain(dev)

			st, err := dev.State()
			switch {
			case transient(err):
				reacquire(dev, err)
				continue
			case err != nil:
				slog.Info("device disconnected", slog.Any("error", err))
				return OutcomeDisconnected, nil
			}
			sink(st)

		case WaitTimedOut:
			// Nothing arrived; fetch once anyway so an unplugged device
			// is noticed within one timeout, not only on the next event.
			_, err := dev.State()
			switch {
			case transient(err):
				reacquire(dev, err)
			case err != nil:
				slog.Info("device disconnected", slog.Any("error", err))
				return OutcomeDisconnected, nil
			}
		}
	}
}

// drain empties the buffered event queue. A transient error re-acquires
// and keeps draining; if the re-acquire fails, or on any other error or an
// empty read, draining stops and the caller's state fetch decides what
// happens next.
func drain(dev EventDevice) {
	for {
		n, err := dev.Drain()
		switch {
		case transient(err):
			if dev.Acquire() != nil {
				return
			}
		case err != nil || n == 0:
			return
		}
	}
}

// reacquire retries access after transient loss. Failures are expected
// while the device is contended or mid-replug; there is no attempt cap,
// the outer loop's wait cadence paces the retries.
func reacquire(dev EventDevice, cause error) {
	slog.Debug("re-acquiring device", slog.Any("cause", cause))
	if err := dev.Acquire(); err != nil {
		slog.Debug("re-acquire failed", slog.Any("error", err))
	}
}
