package gamepad

import (
	"context"
	"errors"
	"testing"
	"time"
)

func pollEngine(api *MockSlotAPI) *Engine {
	return &Engine{XInput: api, PollInterval: time.Microsecond}
}

func collectPadStates(t *testing.T, states []State) []PadState {
	t.Helper()
	out := make([]PadState, 0, len(states))
	for _, s := range states {
		ps, ok := s.(PadState)
		if !ok {
			t.Fatalf("snapshot %T is not a PadState", s)
		}
		out = append(out, ps)
	}
	return out
}

func TestPollEmitsOnPacketChange(t *testing.T) {
	api := &MockSlotAPI{Results: map[int][]SlotResult{
		1: {
			{State: PadState{Packet: 5, Buttons: ButtonA}},
			{State: PadState{Packet: 5, Buttons: ButtonA}},
			{State: PadState{Packet: 5, Buttons: ButtonA}},
			{State: PadState{Packet: 6, Buttons: ButtonA | ButtonB}},
			{State: PadState{Packet: 6, Buttons: ButtonA | ButtonB}},
			{State: PadState{Packet: 7}},
			{Err: ErrNotConnected},
		},
	}}

	var got []State
	outcome, err := pollEngine(api).Stream(context.Background(), Device{Kind: KindXInput, Slot: 1}, func(s State) {
		got = append(got, s)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeDisconnected {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeDisconnected)
	}

	states := collectPadStates(t, got)
	if len(states) != 3 {
		t.Fatalf("emitted %d snapshots, want 3", len(states))
	}
	for i, want := range []uint32{5, 6, 7} {
		if states[i].Packet != want {
			t.Errorf("snapshot %d packet = %d, want %d", i, states[i].Packet, want)
		}
	}
}

func TestPollFirstFetchAlwaysEmits(t *testing.T) {
	// A packet number of zero must not suppress the first snapshot.
	api := &MockSlotAPI{Results: map[int][]SlotResult{
		0: {
			{State: PadState{Packet: 0}},
			{State: PadState{Packet: 0}},
			{Err: ErrNotConnected},
		},
	}}

	var emitted int
	outcome, err := pollEngine(api).Stream(context.Background(), Device{Kind: KindXInput}, func(State) {
		emitted++
	})
	if err != nil || outcome != OutcomeDisconnected {
		t.Fatalf("outcome = %v, err = %v", outcome, err)
	}
	if emitted != 1 {
		t.Fatalf("emitted %d snapshots, want 1", emitted)
	}
}

func TestPollFetchFailureDisconnects(t *testing.T) {
	tests := []struct {
		name    string
		results []SlotResult
		want    int // snapshots before the failure
	}{
		{"immediate", []SlotResult{{Err: ErrNotConnected}}, 0},
		{"after one emission", []SlotResult{
			{State: PadState{Packet: 9}},
			{Err: errors.New("bus gone")},
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockSlotAPI{Results: map[int][]SlotResult{2: tt.results}}

			var emitted int
			outcome, err := pollEngine(api).Stream(context.Background(), Device{Kind: KindXInput, Slot: 2}, func(State) {
				emitted++
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome != OutcomeDisconnected {
				t.Fatalf("outcome = %v, want %v", outcome, OutcomeDisconnected)
			}
			if emitted != tt.want {
				t.Fatalf("emitted %d snapshots, want %d", emitted, tt.want)
			}
			if api.Fetches != len(tt.results) {
				t.Fatalf("fetches = %d, want %d", api.Fetches, len(tt.results))
			}
		})
	}
}

func TestPollCancel(t *testing.T) {
	api := &MockSlotAPI{Results: map[int][]SlotResult{
		0: {{State: PadState{Packet: 42}}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var emitted int
	outcome, err := pollEngine(api).Stream(ctx, Device{Kind: KindXInput}, func(State) {
		emitted++
		cancel()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeStopped {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeStopped)
	}
	// Cancellation must be honored before the next fetch.
	if emitted != 1 || api.Fetches != 1 {
		t.Fatalf("emitted %d snapshots over %d fetches after cancel", emitted, api.Fetches)
	}
}
