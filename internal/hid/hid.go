// Package hid enumerates raw HID interfaces so the controller list
// can be cross-checked against what the OS actually exposes.
package hid

// Game controllers sit on the generic desktop usage page.
const (
	UsagePageGenericDesktop = 0x01

	UsageJoystick  = 0x04
	UsageGamepad   = 0x05
	UsageMultiAxis = 0x08
)

// Info describes one HID interface.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
	UsagePage    uint16
	Usage        uint16
}

// IsController reports whether the interface presents itself as a
// joystick, gamepad or multi-axis controller. Platforms that cannot
// surface usage information report false.
func (i Info) IsController() bool {
	if i.UsagePage != UsagePageGenericDesktop {
		return false
	}
	switch i.Usage {
	case UsageJoystick, UsageGamepad, UsageMultiAxis:
		return true
	}
	return false
}

// Lister enumerates HID interfaces.
type Lister interface {
	List() ([]Info, error)
}

// NewLister returns the OS-specific HID lister.
func NewLister() (Lister, error) {
	return newLister()
}
