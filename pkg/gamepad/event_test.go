package gamepad

import (
	"context"
	"errors"
	"testing"
)

func eventEngine(api *MockEventAPI) *Engine {
	return &Engine{DirectInput: api}
}

var testDevice = Device{Kind: KindDirectInput, Index: 1, Name: "Generic USB Gamepad", GUID: GUID{0xAB}}

func TestEventSetupFailure(t *testing.T) {
	tests := []struct {
		name string
		api  *MockEventAPI
		step SetupStep
	}{
		{
			"open fails",
			&MockEventAPI{OpenErr: errors.New("no such device")},
			StepOpen,
		},
		{
			"configure fails",
			&MockEventAPI{Device: &MockEventDevice{ConfigureErr: errors.New("bad window")}},
			StepConfigure,
		},
		{
			"configure reports its own stage",
			&MockEventAPI{Device: &MockEventDevice{
				ConfigureErr: &SetupError{Step: StepDataFormat, Err: errors.New("rejected")},
			}},
			StepDataFormat,
		},
		{
			"acquire fails",
			&MockEventAPI{Device: &MockEventDevice{
				AcquireErrs: []error{errors.New("held exclusively elsewhere")},
			}},
			StepAcquire,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var emitted int
			outcome, err := eventEngine(tt.api).Stream(context.Background(), testDevice, func(State) {
				emitted++
			})
			if outcome != OutcomeFailed {
				t.Fatalf("outcome = %v, want %v", outcome, OutcomeFailed)
			}
			var se *SetupError
			if !errors.As(err, &se) {
				t.Fatalf("error %v does not carry a setup stage", err)
			}
			if se.Step != tt.step {
				t.Fatalf("failed stage = %q, want %q", se.Step, tt.step)
			}
			if emitted != 0 {
				t.Fatalf("emitted %d snapshots during failed setup", emitted)
			}
			if dev := tt.api.Device; dev != nil {
				if dev.Closes != 1 {
					t.Errorf("device closes = %d, want 1", dev.Closes)
				}
				if dev.Acquired() {
					t.Error("device left acquired after failed setup")
				}
			}
		})
	}
}

func TestEventTransientFetchReacquires(t *testing.T) {
	dev := &MockEventDevice{
		Waits: []WaitResult{{Status: WaitSignaled}, {Status: WaitSignaled}},
		States: []StateResult{
			{Err: ErrInputLost},
			{State: JoyState{Axes: [6]int32{100, -200}}},
		},
	}
	api := &MockEventAPI{Device: dev}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []State
	outcome, err := eventEngine(api).Stream(ctx, testDevice, func(s State) {
		got = append(got, s)
		cancel()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeStopped {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeStopped)
	}
	if len(got) != 1 {
		t.Fatalf("emitted %d snapshots, want 1", len(got))
	}
	js, ok := got[0].(JoyState)
	if !ok || js.Axes[0] != 100 || js.Axes[1] != -200 {
		t.Fatalf("snapshot = %+v", got[0])
	}
	// One acquire during setup, one after the lost fetch.
	if dev.Acquires != 2 {
		t.Fatalf("acquires = %d, want 2", dev.Acquires)
	}
	if dev.Unacquires != 1 || dev.Closes != 1 || dev.Acquired() {
		t.Fatalf("teardown incomplete: unacquires=%d closes=%d acquired=%v",
			dev.Unacquires, dev.Closes, dev.Acquired())
	}
}

func TestEventFetchFailureDisconnects(t *testing.T) {
	tests := []struct {
		name  string
		waits []WaitResult
	}{
		{"signaled fetch", []WaitResult{{Status: WaitSignaled}}},
		{"timeout liveness fetch", nil}, // exhausted queue times out
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &MockEventDevice{
				Waits:  tt.waits,
				States: []StateResult{{Err: errors.New("device unplugged")}},
			}
			api := &MockEventAPI{Device: dev}

			var emitted int
			outcome, err := eventEngine(api).Stream(context.Background(), testDevice, func(State) {
				emitted++
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome != OutcomeDisconnected {
				t.Fatalf("outcome = %v, want %v", outcome, OutcomeDisconnected)
			}
			if emitted != 0 {
				t.Fatalf("emitted %d snapshots, want 0", emitted)
			}
			if dev.Unacquires != 1 || dev.Closes != 1 {
				t.Fatalf("teardown incomplete: unacquires=%d closes=%d", dev.Unacquires, dev.Closes)
			}
		})
	}
}

func TestEventWaitFailure(t *testing.T) {
	dev := &MockEventDevice{
		Waits: []WaitResult{{Err: errors.New("wait object gone")}},
	}
	api := &MockEventAPI{Device: dev}

	outcome, err := eventEngine(api).Stream(context.Background(), testDevice, func(State) {
		t.Error("no snapshot expected")
	})
	if outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeFailed)
	}
	if !errors.Is(err, ErrWaitFailed) {
		t.Fatalf("error %v does not wrap ErrWaitFailed", err)
	}
	if dev.Unacquires != 1 || dev.Closes != 1 {
		t.Fatalf("teardown incomplete: unacquires=%d closes=%d", dev.Unacquires, dev.Closes)
	}
}

func TestEventTimeoutLiveness(t *testing.T) {
	// Two idle cycles: the first loses the device and re-acquires, the
	// second confirms it is alive. Neither may emit. A broken wait ends
	// the test deterministically.
	dev := &MockEventDevice{
		Waits: []WaitResult{
			{Status: WaitTimedOut},
			{Status: WaitTimedOut},
			{Err: errors.New("wait object gone")},
		},
		States: []StateResult{
			{Err: ErrNotAcquired},
			{State: JoyState{}},
		},
	}
	api := &MockEventAPI{Device: dev}

	var emitted int
	outcome, err := eventEngine(api).Stream(context.Background(), testDevice, func(State) {
		emitted++
	})
	if outcome != OutcomeFailed || !errors.Is(err, ErrWaitFailed) {
		t.Fatalf("outcome = %v, err = %v", outcome, err)
	}
	if emitted != 0 {
		t.Fatalf("idle liveness checks emitted %d snapshots", emitted)
	}
	if dev.StateCalls != 2 {
		t.Fatalf("state fetches = %d, want 2", dev.StateCalls)
	}
	if dev.Acquires != 2 {
		t.Fatalf("acquires = %d, want 2", dev.Acquires)
	}
}

func TestEventDrain(t *testing.T) {
	t.Run("transient drain re-acquires and continues", func(t *testing.T) {
		dev := &MockEventDevice{
			Waits: []WaitResult{{Status: WaitSignaled}},
			Drains: []DrainResult{
				{Err: ErrInputLost},
				{N: 2},
				{N: 0},
			},
			States: []StateResult{{State: JoyState{Buttons: [128]bool{3: true}}}},
		}
		api := &MockEventAPI{Device: dev}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var got []State
		outcome, err := eventEngine(api).Stream(ctx, testDevice, func(s State) {
			got = append(got, s)
			cancel()
		})
		if err != nil || outcome != OutcomeStopped {
			t.Fatalf("outcome = %v, err = %v", outcome, err)
		}
		if dev.DrainCalls != 3 {
			t.Fatalf("drain calls = %d, want 3", dev.DrainCalls)
		}
		if dev.Acquires != 2 {
			t.Fatalf("acquires = %d, want 2", dev.Acquires)
		}
		if len(got) != 1 {
			t.Fatalf("emitted %d snapshots, want 1", len(got))
		}
		if js := got[0].(JoyState); !js.Pressed(3) {
			t.Fatalf("snapshot lost button state: %+v", js)
		}
	})

	t.Run("drain stops when re-acquire fails", func(t *testing.T) {
		dev := &MockEventDevice{
			AcquireErrs: []error{nil, errors.New("still lost")},
			Waits:       []WaitResult{{Status: WaitSignaled}},
			Drains:      []DrainResult{{Err: ErrNotAcquired}},
			States:      []StateResult{{Err: errors.New("device unplugged")}},
		}
		api := &MockEventAPI{Device: dev}

		outcome, err := eventEngine(api).Stream(context.Background(), testDevice, func(State) {
			t.Error("no snapshot expected")
		})
		if err != nil || outcome != OutcomeDisconnected {
			t.Fatalf("outcome = %v, err = %v", outcome, err)
		}
		if dev.DrainCalls != 1 {
			t.Fatalf("drain calls = %d, want 1", dev.DrainCalls)
		}
		if dev.Acquires != 2 {
			t.Fatalf("acquires = %d, want 2", dev.Acquires)
		}
	})
}

func TestEventCancelBeforeFirstWait(t *testing.T) {
	dev := &MockEventDevice{}
	api := &MockEventAPI{Device: dev}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := eventEngine(api).Stream(ctx, testDevice, func(State) {
		t.Error("no snapshot expected")
	})
	if err != nil || outcome != OutcomeStopped {
		t.Fatalf("outcome = %v, err = %v", outcome, err)
	}
	if dev.WaitCalls != 0 {
		t.Fatalf("wait calls = %d, want 0", dev.WaitCalls)
	}
	// Setup and teardown still run in full.
	if dev.Configures != 1 || dev.Acquires != 1 || dev.Unacquires != 1 || dev.Closes != 1 {
		t.Fatalf("lifecycle counts: configure=%d acquire=%d unacquire=%d close=%d",
			dev.Configures, dev.Acquires, dev.Unacquires, dev.Closes)
	}
}

func TestEventResourceSymmetry(t *testing.T) {
	tests := []struct {
		name string
		api  *MockEventAPI
	}{
		{"disconnect", &MockEventAPI{Device: &MockEventDevice{
			States: []StateResult{{Err: errors.New("gone")}},
		}}},
		{"wait failure", &MockEventAPI{Device: &MockEventDevice{
			Waits: []WaitResult{{Err: errors.New("gone")}},
		}}},
		{"acquire failure", &MockEventAPI{Device: &MockEventDevice{
			AcquireErrs: []error{errors.New("gone")},
		}}},
		{"configure failure", &MockEventAPI{Device: &MockEventDevice{
			ConfigureErr: errors.New("gone"),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			_, _ = eventEngine(tt.api).Stream(ctx, testDevice, func(State) {})
			dev := tt.api.Device
			if tt.api.Opens != dev.Closes {
				t.Errorf("opens = %d, closes = %d", tt.api.Opens, dev.Closes)
			}
			if dev.Acquired() {
				t.Error("device left acquired")
			}
		})
	}
}
