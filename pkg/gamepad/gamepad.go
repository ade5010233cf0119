// Package gamepad merges game controllers reachable through two input
// backends into one indexed device list and streams live state from a
// selected device. The slot backend (XInput) is polled; the event backend
// (DirectInput) delivers buffered events used as a wake signal, with the
// authoritative data always coming from a full-state fetch.
package gamepad

import (
	"encoding/binary"
	"fmt"
)

// Kind identifies the backend a device is reachable through.
type Kind uint8

const (
	KindXInput      Kind = iota // numbered slot, poll-only
	KindDirectInput             // enumerated device, buffered events
)

func (k Kind) String() string {
	switch k {
	case KindXInput:
		return "XInput"
	case KindDirectInput:
		return "DirectInput"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// GUID is a device instance identifier in its native 16-byte layout.
type GUID [16]byte

// String formats the identifier in registry form.
func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		binary.LittleEndian.Uint32(g[0:4]),
		binary.LittleEndian.Uint16(g[4:6]),
		binary.LittleEndian.Uint16(g[6:8]),
		g[8], g[9], g[10], g[11], g[12], g[13], g[14], g[15])
}

// Device identifies one discoverable controller. A Device is only valid
// within the enumeration snapshot that produced it; indices may be
// reassigned by the next enumeration.
type Device struct {
	Kind  Kind
	Index int    // position in the merged list
	Name  string // synthesized for XInput, product name for DirectInput

	Slot int  // XInput user slot 0..3, meaningful only for KindXInput
	GUID GUID // instance GUID, meaningful only for KindDirectInput
}

// State is one complete read of a device's input. The concrete type is
// PadState for KindXInput devices and JoyState for KindDirectInput.
type State interface {
	Kind() Kind
}

// XInput button bitmask values, as reported in PadState.Buttons.
const (
	ButtonDPadUp        uint16 = 0x0001
	ButtonDPadDown      uint16 = 0x0002
	ButtonDPadLeft      uint16 = 0x0004
	ButtonDPadRight     uint16 = 0x0008
	ButtonStart         uint16 = 0x0010
	ButtonBack          uint16 = 0x0020
	ButtonLeftThumb     uint16 = 0x0040
	ButtonRightThumb    uint16 = 0x0080
	ButtonLeftShoulder  uint16 = 0x0100
	ButtonRightShoulder uint16 = 0x0200
	ButtonA             uint16 = 0x1000
	ButtonB             uint16 = 0x2000
	ButtonX             uint16 = 0x4000
	ButtonY             uint16 = 0x8000
)

// PadState is a slot-backend snapshot. Packet increases whenever the
// controller reports new data; an unchanged Packet between two fetches
// means the rest of the state is unchanged too.
type PadState struct {
	Packet       uint32
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	LeftX        int16
	LeftY        int16
	RightX       int16
	RightY       int16
}

func (PadState) Kind() Kind { return KindXInput }

// POVCentered marks a point-of-view hat that is centered or not present.
const POVCentered int32 = -1

// JoyState is an event-backend snapshot. Axis and slider ranges depend on
// the device. POV values are in hundredths of a degree clockwise from
// north, or POVCentered.
type JoyState struct {
	Axes    [6]int32 // X, Y, Z, RX, RY, RZ
	Sliders [2]int32
	POVs    [4]int32
	Buttons [128]bool
}

func (JoyState) Kind() Kind { return KindDirectInput }

// Pressed reports whether button i is down. Out-of-range indices are
// never pressed.
func (j JoyState) Pressed(i int) bool {
	return i >= 0 && i < len(j.Buttons) && j.Buttons[i]
}
