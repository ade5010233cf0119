//go:build windows

package dinput

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// diJoyState2 mirrors DIJOYSTATE2: position, 128 buttons, then the
// velocity, acceleration and force groups. 272 bytes, no padding.
type diJoyState2 struct {
	X, Y, Z, Rx, Ry, Rz       int32
	Slider                    [2]int32
	POV                       [4]uint32
	Buttons                   [128]byte
	VX, VY, VZ, VRx, VRy, VRz int32
	VSlider                   [2]int32
	AX, AY, AZ, ARx, ARy, ARz int32
	ASlider                   [2]int32
	FX, FY, FZ, FRx, FRy, FRz int32
	FSlider                   [2]int32
}

// diObjectDataFormat mirrors DIOBJECTDATAFORMAT.
type diObjectDataFormat struct {
	guid  *windows.GUID
	ofs   uint32
	typ   uint32
	flags uint32
}

// diDataFormat mirrors DIDATAFORMAT.
type diDataFormat struct {
	size     uint32
	objSize  uint32
	flags    uint32
	dataSize uint32
	numObjs  uint32
	objects  *diObjectDataFormat
}

const (
	didftAxis        = 0x00000003
	didftButton      = 0x0000000C
	didftPOV         = 0x00000010
	didftAnyInstance = 0x00FFFF00
	didftOptional    = 0x80000000

	didoiAspectPosition = 0x00000100
	didoiAspectVelocity = 0x00000200
	didoiAspectAccel    = 0x00000300
	didoiAspectForce    = 0x00000400

	didfAbsAxis = 0x00000001
)

// Axis and POV object GUIDs from the DirectInput headers.
var (
	guidXAxis  = windows.GUID{Data1: 0xA36D02E0, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidYAxis  = windows.GUID{Data1: 0xA36D02E1, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidZAxis  = windows.GUID{Data1: 0xA36D02E2, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidRzAxis = windows.GUID{Data1: 0xA36D02E3, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidSlider = windows.GUID{Data1: 0xA36D02E4, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidPOV    = windows.GUID{Data1: 0xA36D02F2, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidRxAxis = windows.GUID{Data1: 0xA36D02F4, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
	guidRyAxis = windows.GUID{Data1: 0xA36D02F5, Data2: 0xC9D3, Data3: 0x11CF, Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00}}
)

// joyFormat reproduces the stock c_dfDIJoystick2 format so
// GetDeviceState fills a diJoyState2. The objects slice stays alive
// through the package-level reference.
var (
	joyFormatObjects = buildFormatObjects()
	joyFormat        = diDataFormat{
		size:     uint32(unsafe.Sizeof(diDataFormat{})),
		objSize:  uint32(unsafe.Sizeof(diObjectDataFormat{})),
		flags:    didfAbsAxis,
		dataSize: uint32(unsafe.Sizeof(diJoyState2{})),
		numObjs:  uint32(len(joyFormatObjects)),
		objects:  &joyFormatObjects[0],
	}
)

func buildFormatObjects() []diObjectDataFormat {
	var st diJoyState2
	objs := make([]diObjectDataFormat, 0, 164)

	axisGUIDs := []*windows.GUID{
		&guidXAxis, &guidYAxis, &guidZAxis,
		&guidRxAxis, &guidRyAxis, &guidRzAxis,
		&guidSlider, &guidSlider,
	}
	// Each group is six axes plus two sliders in consecutive int32s.
	axisGroup := func(base uintptr, aspect uint32) {
		for i, g := range axisGUIDs {
			objs = append(objs, diObjectDataFormat{
				guid:  g,
				ofs:   uint32(base) + uint32(4*i),
				typ:   didftAxis | didftAnyInstance | didftOptional,
				flags: aspect,
			})
		}
	}

	axisGroup(unsafe.Offsetof(st.X), didoiAspectPosition)
	for i := 0; i < len(st.POV); i++ {
		objs = append(objs, diObjectDataFormat{
			guid: &guidPOV,
			ofs:  uint32(unsafe.Offsetof(st.POV)) + uint32(4*i),
			typ:  didftPOV | didftAnyInstance | didftOptional,
		})
	}
	for i := 0; i < len(st.Buttons); i++ {
		objs = append(objs, diObjectDataFormat{
			ofs: uint32(unsafe.Offsetof(st.Buttons)) + uint32(i),
			typ: didftButton | didftAnyInstance | didftOptional,
		})
	}
	axisGroup(unsafe.Offsetof(st.VX), didoiAspectVelocity)
	axisGroup(unsafe.Offsetof(st.AX), didoiAspectAccel)
	axisGroup(unsafe.Offsetof(st.FX), didoiAspectForce)

	return objs
}
