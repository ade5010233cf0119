//go:build !windows

package xinput

import (
	"errors"

	"github.com/qwertybob1978/msi-gamecontroller-cli/pkg/gamepad"
)

var errUnsupported = errors.New("xinput: only available on windows")

// API is a placeholder on platforms without an XInput runtime.
type API struct{}

func New() (*API, error) { return nil, errUnsupported }

func (a *API) SlotCount() int { return 0 }

func (a *API) State(int) (gamepad.PadState, error) {
	return gamepad.PadState{}, errUnsupported
}
