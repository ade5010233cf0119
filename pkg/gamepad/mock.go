package gamepad

import "time"

// Scriptable fakes for both backends. They drive the engine tests and the
// runnable example; nothing here touches hardware. The mocks expect the
// single-goroutine call pattern the engine uses, so they carry no locks;
// inspect the counters only after Stream returns.

// SlotResult is one scripted answer from MockSlotAPI.State.
type SlotResult struct {
	State PadState
	Err   error
}

// MockSlotAPI is a slot backend answering from per-slot result queues.
// State pops entries until one remains; the last entry then repeats
// forever, so a single entry models a device that stays connected. A slot
// with no entries reports ErrNotConnected.
type MockSlotAPI struct {
	Slots   int // SlotCount; zero means 4
	Results map[int][]SlotResult

	Fetches int
}

func (m *MockSlotAPI) SlotCount() int {
	if m.Slots <= 0 {
		return 4
	}
	return m.Slots
}

func (m *MockSlotAPI) State(slot int) (PadState, error) {
	m.Fetches++
	q := m.Results[slot]
	if len(q) == 0 {
		return PadState{}, ErrNotConnected
	}
	r := q[0]
	if len(q) > 1 {
		m.Results[slot] = q[1:]
	}
	return r.State, r.Err
}

// WaitResult, DrainResult and StateResult are scripted answers for
// MockEventDevice.
type WaitResult struct {
	Status WaitStatus
	Err    error
}

type DrainResult struct {
	N   int
	Err error
}

type StateResult struct {
	State JoyState
	Err   error
}

// MockEventAPI is an event backend serving a fixed device list and a
// single scriptable device.
type MockEventAPI struct {
	Infos   []EventDeviceInfo
	ListErr error

	Device  *MockEventDevice
	OpenErr error

	Opens int
}

func (m *MockEventAPI) Devices() ([]EventDeviceInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Infos, nil
}

func (m *MockEventAPI) Open(GUID) (EventDevice, error) {
	m.Opens++
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Device == nil {
		m.Device = &MockEventDevice{}
	}
	return m.Device, nil
}

// MockEventDevice scripts one event device. Each queue pops an entry per
// call; an exhausted queue answers with an idle default: a timed-out wait,
// an empty drain, a zero state with no error. AcquireErrs scripts every
// Acquire call in order, including re-acquires; an exhausted queue means
// success.
type MockEventDevice struct {
	ConfigureErr error
	AcquireErrs  []error

	Waits  []WaitResult
	Drains []DrainResult
	States []StateResult

	Configures int
	Acquires   int
	Unacquires int
	Closes     int
	WaitCalls  int
	DrainCalls int
	StateCalls int

	acquired bool
}

func (m *MockEventDevice) Configure(uintptr, int) error {
	m.Configures++
	return m.ConfigureErr
}

func (m *MockEventDevice) Acquire() error {
	m.Acquires++
	if len(m.AcquireErrs) > 0 {
		err := m.AcquireErrs[0]
		m.AcquireErrs = m.AcquireErrs[1:]
		if err != nil {
			return err
		}
	}
	m.acquired = true
	return nil
}

func (m *MockEventDevice) Unacquire() error {
	m.Unacquires++
	m.acquired = false
	return nil
}

func (m *MockEventDevice) Wait(time.Duration) (WaitStatus, error) {
	m.WaitCalls++
	if len(m.Waits) == 0 {
		return WaitTimedOut, nil
	}
	r := m.Waits[0]
	m.Waits = m.Waits[1:]
	return r.Status, r.Err
}

func (m *MockEventDevice) Drain() (int, error) {
	m.DrainCalls++
	if len(m.Drains) == 0 {
		return 0, nil
	}
	r := m.Drains[0]
	m.Drains = m.Drains[1:]
	return r.N, r.Err
}

func (m *MockEventDevice) State() (JoyState, error) {
	m.StateCalls++
	if len(m.States) == 0 {
		return JoyState{}, nil
	}
	r := m.States[0]
	m.States = m.States[1:]
	return r.State, r.Err
}

func (m *MockEventDevice) Close() error {
	m.Closes++
	return nil
}

// Acquired reports whether the device is currently acquired; after a
// stream ends it must be false.
func (m *MockEventDevice) Acquired() bool { return m.acquired }
