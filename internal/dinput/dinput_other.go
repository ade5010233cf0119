//go:build !windows

package dinput

import (
	"errors"

	"github.com/qwertybob1978/msi-gamecontroller-cli/pkg/gamepad"
)

var errUnsupported = errors.New("dinput: only available on windows")

// API is a placeholder on platforms without DirectInput.
type API struct{}

func New() (*API, error) { return nil, errUnsupported }

func (a *API) Devices() ([]gamepad.EventDeviceInfo, error) { return nil, errUnsupported }

func (a *API) Open(gamepad.GUID) (gamepad.EventDevice, error) { return nil, errUnsupported }

func (a *API) Close() error { return nil }

func NewMessageWindow() (uintptr, error) { return 0, errUnsupported }

func DestroyMessageWindow(uintptr) {}
