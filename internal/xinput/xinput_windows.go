//go:build windows

// Package xinput reads controller slots through the system XInput
// runtime. The runtime exposes four fixed slots that can only be
// polled, so connection state falls out of the per-slot status code.
package xinput

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/qwertybob1978/msi-gamecontroller-cli/pkg/gamepad"
)

const slotCount = 4

// ERROR_DEVICE_NOT_CONNECTED
const errDeviceNotConnected = 1167

// Newest runtime first. xinput9_1_0.dll ships with the OS back to
// Vista and covers machines without the redistributable.
var dllNames = []string{"xinput1_4.dll", "xinput9_1_0.dll"}

type rawGamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type rawState struct {
	PacketNumber uint32
	Gamepad      rawGamepad
}

// API implements gamepad.SlotAPI on top of XInputGetState.
type API struct {
	getState *windows.LazyProc
}

// New resolves the newest XInput runtime present on the system.
func New() (*API, error) {
	var lastErr error
	for _, name := range dllNames {
		dll := windows.NewLazySystemDLL(name)
		if err := dll.Load(); err != nil {
			lastErr = err
			continue
		}
		proc := dll.NewProc("XInputGetState")
		if err := proc.Find(); err != nil {
			lastErr = err
			continue
		}
		return &API{getState: proc}, nil
	}
	return nil, fmt.Errorf("xinput: no usable runtime: %w", lastErr)
}

func (a *API) SlotCount() int { return slotCount }

// State polls one slot. An empty slot reports gamepad.ErrNotConnected;
// any other failure carries the system error code.
func (a *API) State(slot int) (gamepad.PadState, error) {
	var raw rawState
	r, _, _ := a.getState.Call(uintptr(slot), uintptr(unsafe.Pointer(&raw)))
	switch r {
	case 0:
	case errDeviceNotConnected:
		return gamepad.PadState{}, gamepad.ErrNotConnected
	default:
		return gamepad.PadState{}, fmt.Errorf("xinput: slot %d: %w", slot, syscall.Errno(r))
	}
	return gamepad.PadState{
		Packet:       raw.PacketNumber,
		Buttons:      raw.Gamepad.Buttons,
		LeftTrigger:  raw.Gamepad.LeftTrigger,
		RightTrigger: raw.Gamepad.RightTrigger,
		LeftX:        raw.Gamepad.ThumbLX,
		LeftY:        raw.Gamepad.ThumbLY,
		RightX:       raw.Gamepad.ThumbRX,
		RightY:       raw.Gamepad.ThumbRY,
	}, nil
}
