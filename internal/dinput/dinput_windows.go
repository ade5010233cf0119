//go:build windows

// Package dinput drives joysticks through the DirectInput8 COM
// interface. Devices are enumerated by instance GUID and deliver
// buffered input through a wait object; the full device state is
// always fetched separately, the buffer only signals activity.
package dinput

import (
	"encoding/binary"
	"fmt"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/qwertybob1978/msi-gamecontroller-cli/pkg/gamepad"
)

var (
	dinput8                = windows.NewLazySystemDLL("dinput8.dll")
	procDirectInput8Create = dinput8.NewProc("DirectInput8Create")

	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

const (
	directInputVersion = 0x0800

	di8DevClassGameCtrl = 4
	diedflAttachedOnly  = 0x00000001
	dienumContinue      = 1

	disclNonExclusive = 0x00000002
	disclBackground   = 0x00000008

	// MAKEDIPROP(1), passed where a REFGUID is expected.
	dipropBufferSize = 1
	diphDevice       = 0

	hrInputLost   = 0x8007001E // DIERR_INPUTLOST
	hrNotAcquired = 0x8007000C // DIERR_NOTACQUIRED
)

var iidIDirectInput8W = windows.GUID{
	Data1: 0xBF798031, Data2: 0x483A, Data3: 0x4DA2,
	Data4: [8]byte{0xAA, 0x99, 0x5D, 0x64, 0xED, 0x36, 0x97, 0x00},
}

type dinputVtbl struct {
	queryInterface         uintptr
	addRef                 uintptr
	release                uintptr
	createDevice           uintptr
	enumDevices            uintptr
	getDeviceStatus        uintptr
	runControlPanel        uintptr
	initialize             uintptr
	findDevice             uintptr
	enumDevicesBySemantics uintptr
	configureDevices       uintptr
}

type iDirectInput8 struct {
	vtbl *dinputVtbl
}

// Only the methods this package calls; the native vtable continues
// past setCooperativeLevel.
type deviceVtbl struct {
	queryInterface       uintptr
	addRef               uintptr
	release              uintptr
	getCapabilities      uintptr
	enumObjects          uintptr
	getProperty          uintptr
	setProperty          uintptr
	acquire              uintptr
	unacquire            uintptr
	getDeviceState       uintptr
	getDeviceData        uintptr
	setDataFormat        uintptr
	setEventNotification uintptr
	setCooperativeLevel  uintptr
}

type iDirectInputDevice8 struct {
	vtbl *deviceVtbl
}

// deviceInstance mirrors DIDEVICEINSTANCEW.
type deviceInstance struct {
	size         uint32
	guidInstance windows.GUID
	guidProduct  windows.GUID
	devType      uint32
	instanceName [260]uint16
	productName  [260]uint16
	guidFFDriver windows.GUID
	usagePage    uint16
	usage        uint16
}

// diDeviceObjectData mirrors DIDEVICEOBJECTDATA.
type diDeviceObjectData struct {
	ofs       uint32
	data      uint32
	timeStamp uint32
	sequence  uint32
	appData   uintptr
}

type diPropHeader struct {
	size       uint32
	headerSize uint32
	obj        uint32
	how        uint32
}

type diPropDWord struct {
	header diPropHeader
	data   uint32
}

func failed(hr uintptr) bool { return int32(uint32(hr)) < 0 }

// hrError keeps the access-loss codes as bare sentinels so callers can
// classify them; everything else carries the operation and code.
func hrError(op string, hr uintptr) error {
	switch uint32(hr) {
	case hrInputLost:
		return gamepad.ErrInputLost
	case hrNotAcquired:
		return gamepad.ErrNotAcquired
	}
	return fmt.Errorf("%s: hresult 0x%08X", op, uint32(hr))
}

func guidFrom(g windows.GUID) gamepad.GUID {
	var out gamepad.GUID
	binary.LittleEndian.PutUint32(out[0:4], g.Data1)
	binary.LittleEndian.PutUint16(out[4:6], g.Data2)
	binary.LittleEndian.PutUint16(out[6:8], g.Data3)
	copy(out[8:], g.Data4[:])
	return out
}

func guidToNative(g gamepad.GUID) windows.GUID {
	var d4 [8]byte
	copy(d4[:], g[8:])
	return windows.GUID{
		Data1: binary.LittleEndian.Uint32(g[0:4]),
		Data2: binary.LittleEndian.Uint16(g[4:6]),
		Data3: binary.LittleEndian.Uint16(g[6:8]),
		Data4: d4,
	}
}

// Enumeration runs through a single registered callback; callback
// slots are a process-wide resource that is never returned.
var (
	enumMu        sync.Mutex
	enumCollected []gamepad.EventDeviceInfo
	enumCallback  = syscall.NewCallback(func(inst *deviceInstance, _ uintptr) uintptr {
		enumCollected = append(enumCollected, gamepad.EventDeviceInfo{
			GUID: guidFrom(inst.guidInstance),
			Name: windows.UTF16ToString(inst.productName[:]),
		})
		return dienumContinue
	})
)

// API implements gamepad.EventAPI on an IDirectInput8W instance.
type API struct {
	di *iDirectInput8
}

// New creates the DirectInput8 interface for this process.
func New() (*API, error) {
	inst, _, _ := procGetModuleHandleW.Call(0)
	var di *iDirectInput8
	hr, _, _ := procDirectInput8Create.Call(
		inst,
		directInputVersion,
		uintptr(unsafe.Pointer(&iidIDirectInput8W)),
		uintptr(unsafe.Pointer(&di)),
		0,
	)
	if failed(hr) {
		return nil, &gamepad.SetupError{Step: gamepad.StepBackend, Err: hrError("DirectInput8Create", hr)}
	}
	return &API{di: di}, nil
}

// Devices lists attached game controllers in enumeration order.
func (a *API) Devices() ([]gamepad.EventDeviceInfo, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumCollected = enumCollected[:0]
	hr, _, _ := syscall.SyscallN(a.di.vtbl.enumDevices,
		uintptr(unsafe.Pointer(a.di)),
		di8DevClassGameCtrl,
		enumCallback,
		0,
		diedflAttachedOnly,
	)
	if failed(hr) {
		return nil, hrError("EnumDevices", hr)
	}
	out := make([]gamepad.EventDeviceInfo, len(enumCollected))
	copy(out, enumCollected)
	return out, nil
}

// Open creates a device interface for the given instance GUID.
func (a *API) Open(guid gamepad.GUID) (gamepad.EventDevice, error) {
	g := guidToNative(guid)
	var dev *iDirectInputDevice8
	hr, _, _ := syscall.SyscallN(a.di.vtbl.createDevice,
		uintptr(unsafe.Pointer(a.di)),
		uintptr(unsafe.Pointer(&g)),
		uintptr(unsafe.Pointer(&dev)),
		0,
	)
	if failed(hr) {
		return nil, hrError("CreateDevice", hr)
	}
	return &Device{dev: dev}, nil
}

// Close releases the DirectInput interface.
func (a *API) Close() error {
	if a.di != nil {
		syscall.SyscallN(a.di.vtbl.release, uintptr(unsafe.Pointer(a.di)))
		a.di = nil
	}
	return nil
}

// Device is one opened DirectInput joystick.
type Device struct {
	dev   *iDirectInputDevice8
	event windows.Handle
}

const drainChunk = 64

// Configure sets the joystick data format, shares the device through
// the given window, sizes the event buffer and binds a wait object.
func (d *Device) Configure(window uintptr, bufferSize int) error {
	if hr, _, _ := syscall.SyscallN(d.dev.vtbl.setDataFormat,
		uintptr(unsafe.Pointer(d.dev)),
		uintptr(unsafe.Pointer(&joyFormat)),
	); failed(hr) {
		return &gamepad.SetupError{Step: gamepad.StepDataFormat, Err: hrError("SetDataFormat", hr)}
	}

	if hr, _, _ := syscall.SyscallN(d.dev.vtbl.setCooperativeLevel,
		uintptr(unsafe.Pointer(d.dev)),
		window,
		disclNonExclusive|disclBackground,
	); failed(hr) {
		return &gamepad.SetupError{Step: gamepad.StepCoopLevel, Err: hrError("SetCooperativeLevel", hr)}
	}

	prop := diPropDWord{
		header: diPropHeader{
			size:       uint32(unsafe.Sizeof(diPropDWord{})),
			headerSize: uint32(unsafe.Sizeof(diPropHeader{})),
			how:        diphDevice,
		},
		data: uint32(bufferSize),
	}
	if hr, _, _ := syscall.SyscallN(d.dev.vtbl.setProperty,
		uintptr(unsafe.Pointer(d.dev)),
		dipropBufferSize,
		uintptr(unsafe.Pointer(&prop.header)),
	); failed(hr) {
		return &gamepad.SetupError{Step: gamepad.StepBufferSize, Err: hrError("SetProperty", hr)}
	}

	ev, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return &gamepad.SetupError{Step: gamepad.StepWaitObject, Err: err}
	}
	if hr, _, _ := syscall.SyscallN(d.dev.vtbl.setEventNotification,
		uintptr(unsafe.Pointer(d.dev)),
		uintptr(ev),
	); failed(hr) {
		windows.CloseHandle(ev)
		return &gamepad.SetupError{Step: gamepad.StepNotification, Err: hrError("SetEventNotification", hr)}
	}
	d.event = ev
	return nil
}

func (d *Device) Acquire() error {
	hr, _, _ := syscall.SyscallN(d.dev.vtbl.acquire, uintptr(unsafe.Pointer(d.dev)))
	if failed(hr) {
		return hrError("Acquire", hr)
	}
	return nil
}

func (d *Device) Unacquire() error {
	hr, _, _ := syscall.SyscallN(d.dev.vtbl.unacquire, uintptr(unsafe.Pointer(d.dev)))
	if failed(hr) {
		return hrError("Unacquire", hr)
	}
	return nil
}

// Wait blocks until the device signals new input or the timeout runs
// out.
func (d *Device) Wait(timeout time.Duration) (gamepad.WaitStatus, error) {
	ev, err := windows.WaitForSingleObject(d.event, uint32(timeout/time.Millisecond))
	if err != nil {
		return 0, err
	}
	switch ev {
	case windows.WAIT_OBJECT_0:
		return gamepad.WaitSignaled, nil
	case uint32(windows.WAIT_TIMEOUT):
		return gamepad.WaitTimedOut, nil
	}
	return 0, fmt.Errorf("wait returned 0x%X", ev)
}

// Drain pops up to one chunk of buffered events. Only the count
// matters; the device state is fetched separately.
func (d *Device) Drain() (int, error) {
	var items [drainChunk]diDeviceObjectData
	count := uint32(drainChunk)
	hr, _, _ := syscall.SyscallN(d.dev.vtbl.getDeviceData,
		uintptr(unsafe.Pointer(d.dev)),
		uintptr(unsafe.Sizeof(items[0])),
		uintptr(unsafe.Pointer(&items[0])),
		uintptr(unsafe.Pointer(&count)),
		0,
	)
	if failed(hr) {
		return 0, hrError("GetDeviceData", hr)
	}
	return int(count), nil
}

// State fetches the full current device state.
func (d *Device) State() (gamepad.JoyState, error) {
	var raw diJoyState2
	hr, _, _ := syscall.SyscallN(d.dev.vtbl.getDeviceState,
		uintptr(unsafe.Pointer(d.dev)),
		uintptr(unsafe.Sizeof(raw)),
		uintptr(unsafe.Pointer(&raw)),
	)
	if failed(hr) {
		return gamepad.JoyState{}, hrError("GetDeviceState", hr)
	}
	return convertState(&raw), nil
}

func convertState(raw *diJoyState2) gamepad.JoyState {
	s := gamepad.JoyState{
		Axes:    [6]int32{raw.X, raw.Y, raw.Z, raw.Rx, raw.Ry, raw.Rz},
		Sliders: raw.Slider,
	}
	for i, pov := range raw.POV {
		// A centered hat reports 0xFFFF in the low word.
		if pov&0xFFFF == 0xFFFF {
			s.POVs[i] = gamepad.POVCentered
		} else {
			s.POVs[i] = int32(pov)
		}
	}
	for i, b := range raw.Buttons {
		s.Buttons[i] = b&0x80 != 0
	}
	return s
}

// Close detaches the wait object and releases the device. Callers
// unacquire first.
func (d *Device) Close() error {
	if d.dev == nil {
		return nil
	}
	syscall.SyscallN(d.dev.vtbl.setEventNotification, uintptr(unsafe.Pointer(d.dev)), 0)
	if d.event != 0 {
		windows.CloseHandle(d.event)
		d.event = 0
	}
	syscall.SyscallN(d.dev.vtbl.release, uintptr(unsafe.Pointer(d.dev)))
	d.dev = nil
	return nil
}
