//go:build windows

package dinput

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassW  = user32.NewProc("RegisterClassW")
	procCreateWindowExW = user32.NewProc("CreateWindowExW")
	procDestroyWindow   = user32.NewProc("DestroyWindow")
	procDefWindowProcW  = user32.NewProc("DefWindowProcW")
	procShowWindow      = user32.NewProc("ShowWindow")
)

const (
	wmClose   = 0x0010
	wmDestroy = 0x0002

	wsOverlappedWindow = 0x00CF0000
	swHide             = 0
	cwUseDefault       = 0x80000000

	errClassAlreadyExists syscall.Errno = 1410
)

// wndClass mirrors WNDCLASSW.
type wndClass struct {
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   windows.Handle
	icon       windows.Handle
	cursor     windows.Handle
	background windows.Handle
	menuName   *uint16
	className  *uint16
}

var wndProcCallback = syscall.NewCallback(func(hwnd, msg, wparam, lparam uintptr) uintptr {
	switch msg {
	case wmClose:
		procDestroyWindow.Call(hwnd)
		return 0
	case wmDestroy:
		return 0
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return r
})

var (
	classOnce sync.Once
	classErr  error
	className *uint16
)

func registerClass() error {
	classOnce.Do(func() {
		name, err := windows.UTF16PtrFromString("padctl-hidden-window")
		if err != nil {
			classErr = err
			return
		}
		inst, _, _ := procGetModuleHandleW.Call(0)
		wc := wndClass{
			wndProc:   wndProcCallback,
			instance:  windows.Handle(inst),
			className: name,
		}
		atom, _, callErr := procRegisterClassW.Call(uintptr(unsafe.Pointer(&wc)))
		if atom == 0 && callErr != errClassAlreadyExists {
			classErr = fmt.Errorf("RegisterClassW: %w", callErr)
			return
		}
		className = name
	})
	return classErr
}

// NewMessageWindow creates the hidden top-level window the cooperative
// level is anchored to. The window never enters the foreground.
func NewMessageWindow() (uintptr, error) {
	if err := registerClass(); err != nil {
		return 0, err
	}
	title, err := windows.UTF16PtrFromString("padctl")
	if err != nil {
		return 0, err
	}
	inst, _, _ := procGetModuleHandleW.Call(0)
	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsOverlappedWindow,
		cwUseDefault, cwUseDefault, cwUseDefault, cwUseDefault,
		0, 0, inst, 0,
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowExW: %w", callErr)
	}
	procShowWindow.Call(hwnd, swHide)
	return hwnd, nil
}

// DestroyMessageWindow tears down a window from NewMessageWindow.
func DestroyMessageWindow(hwnd uintptr) {
	if hwnd != 0 {
		procDestroyWindow.Call(hwnd)
	}
}
