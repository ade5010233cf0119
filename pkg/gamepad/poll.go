package gamepad

import (
	"context"
	"log/slog"
	"time"
)

// pollStream busy-polls one slot with a short sleep between fetches. The
// backend has no notification primitive, so the packet number is the only
// change signal: a snapshot is emitted when it differs from the previous
// fetch, and always on the first fetch.
func (e *Engine) pollStream(ctx context.Context, d Device, sink func(State)) (Outcome, error) {
	interval := e.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var last uint32
	have := false
	for {
		if ctx.Err() != nil {
			return OutcomeStopped, nil
		}

		st, err := e.XInput.State(d.Slot)
		if err != nil {
			// Any fetch failure on this backend means the controller is
			// gone; there is no transient class to recover from.
			slog.Info("controller disconnected", slog.Int("slot", d.Slot), slog.Any("error", err))
			return OutcomeDisconnected, nil
		}

		if !have || st.Packet != last {
			have = true
			last = st.Packet
			sink(st)
		}

		time.Sleep(interval)
	}
}
