// Package usbprobe lists HID-capable USB devices through libusb for
// the transport diagnostics. It is read-only: nothing here opens or
// claims a device.
package usbprobe

import (
	"fmt"

	"github.com/karalabe/usb"
)

// Info describes one enumerated USB HID interface.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
	Serial       string
	UsagePage    uint16
	Usage        uint16
	Interface    int
}

// List enumerates every HID-capable device. A vendor or product id of
// zero matches anything.
func List(vendorID, productID uint16) ([]Info, error) {
	infos, err := usb.EnumerateHid(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("usbprobe: enumerate: %w", err)
	}
	out := make([]Info, 0, len(infos))
	for _, di := range infos {
		out = append(out, Info{
			Path:         di.Path,
			VendorID:     di.VendorID,
			ProductID:    di.ProductID,
			Manufacturer: di.Manufacturer,
			Product:      di.Product,
			Serial:       di.Serial,
			UsagePage:    di.UsagePage,
			Usage:        di.Usage,
			Interface:    di.Interface,
		})
	}
	return out, nil
}
