//go:build windows

package hid

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Direct SetupAPI + hid.dll enumeration, no CGO.

var (
	hidDLL   = windows.NewLazySystemDLL("hid.dll")
	setupapi = windows.NewLazySystemDLL("setupapi.dll")

	procHidD_GetHidGuid            = hidDLL.NewProc("HidD_GetHidGuid")
	procHidD_GetAttributes         = hidDLL.NewProc("HidD_GetAttributes")
	procHidD_GetProductString      = hidDLL.NewProc("HidD_GetProductString")
	procHidD_GetManufacturerString = hidDLL.NewProc("HidD_GetManufacturerString")
	procHidD_GetPreparsedData      = hidDLL.NewProc("HidD_GetPreparsedData")
	procHidD_FreePreparsedData     = hidDLL.NewProc("HidD_FreePreparsedData")
	procHidP_GetCaps               = hidDLL.NewProc("HidP_GetCaps")

	procSetupDiGetClassDevsW             = setupapi.NewProc("SetupDiGetClassDevsW")
	procSetupDiEnumDeviceInterfaces      = setupapi.NewProc("SetupDiEnumDeviceInterfaces")
	procSetupDiGetDeviceInterfaceDetailW = setupapi.NewProc("SetupDiGetDeviceInterfaceDetailW")
	procSetupDiDestroyDeviceInfoList     = setupapi.NewProc("SetupDiDestroyDeviceInfoList")
)

const (
	digcfPresent         = 0x00000002
	digcfDeviceInterface = 0x00000010
	invalidHandleValue   = ^uintptr(0)

	hidpStatusSuccess = 0x00110000
)

type hidAttributes struct {
	size          uint32
	vendorID      uint16
	productID     uint16
	versionNumber uint16
}

type deviceInterfaceData struct {
	cbSize             uint32
	interfaceClassGUID windows.GUID
	flags              uint32
	reserved           uintptr
}

type deviceInterfaceDetail struct {
	cbSize     uint32
	devicePath [1]uint16 // variable length
}

type hidpCaps struct {
	usage                     uint16
	usagePage                 uint16
	inputReportByteLength     uint16
	outputReportByteLength    uint16
	featureReportByteLength   uint16
	reserved                  [17]uint16
	numberLinkCollectionNodes uint16
	numberInputButtonCaps     uint16
	numberInputValueCaps      uint16
	numberInputDataIndices    uint16
	numberOutputButtonCaps    uint16
	numberOutputValueCaps     uint16
	numberOutputDataIndices   uint16
	numberFeatureButtonCaps   uint16
	numberFeatureValueCaps    uint16
	numberFeatureDataIndices  uint16
}

type winLister struct{}

func newLister() (Lister, error) {
	return &winLister{}, nil
}

func (l *winLister) List() ([]Info, error) {
	var hidGUID windows.GUID
	procHidD_GetHidGuid.Call(uintptr(unsafe.Pointer(&hidGUID)))

	devInfo, _, err := procSetupDiGetClassDevsW.Call(
		uintptr(unsafe.Pointer(&hidGUID)),
		0,
		0,
		digcfPresent|digcfDeviceInterface,
	)
	if devInfo == 0 || devInfo == invalidHandleValue {
		return nil, fmt.Errorf("SetupDiGetClassDevsW: %v", err)
	}
	defer procSetupDiDestroyDeviceInfoList.Call(devInfo)

	var out []Info
	var ifData deviceInterfaceData
	ifData.cbSize = uint32(unsafe.Sizeof(ifData))

	for i := uint32(0); ; i++ {
		r, _, _ := procSetupDiEnumDeviceInterfaces.Call(
			devInfo,
			0,
			uintptr(unsafe.Pointer(&hidGUID)),
			uintptr(i),
			uintptr(unsafe.Pointer(&ifData)),
		)
		if r == 0 {
			break
		}

		var requiredSize uint32
		procSetupDiGetDeviceInterfaceDetailW.Call(
			devInfo,
			uintptr(unsafe.Pointer(&ifData)),
			0,
			0,
			uintptr(unsafe.Pointer(&requiredSize)),
			0,
		)
		if requiredSize == 0 {
			continue
		}

		buf := make([]byte, requiredSize)
		detail := (*deviceInterfaceDetail)(unsafe.Pointer(&buf[0]))
		// cbSize is the fixed header only: 8 on 64-bit, 6 on 32-bit.
		if unsafe.Sizeof(uintptr(0)) == 8 {
			detail.cbSize = 8
		} else {
			detail.cbSize = 6
		}

		r, _, _ = procSetupDiGetDeviceInterfaceDetailW.Call(
			devInfo,
			uintptr(unsafe.Pointer(&ifData)),
			uintptr(unsafe.Pointer(detail)),
			uintptr(requiredSize),
			0,
			0,
		)
		if r == 0 {
			continue
		}

		pathPtr := &detail.devicePath[0]
		info, ok := probe(pathPtr)
		if !ok {
			continue
		}
		info.Path = windows.UTF16PtrToString(pathPtr)
		out = append(out, info)
	}

	return out, nil
}

// probe opens the interface without access rights and reads the
// descriptor fields the listing shows. Interfaces held exclusively by
// the system (keyboards, mice) fail to open and are skipped.
func probe(pathPtr *uint16) (Info, bool) {
	h, err := windows.CreateFile(
		pathPtr,
		0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return Info{}, false
	}
	defer windows.CloseHandle(h)

	var attrs hidAttributes
	attrs.size = uint32(unsafe.Sizeof(attrs))
	if r, _, _ := procHidD_GetAttributes.Call(uintptr(h), uintptr(unsafe.Pointer(&attrs))); r == 0 {
		return Info{}, false
	}

	info := Info{
		VendorID:  attrs.vendorID,
		ProductID: attrs.productID,
	}

	mfr := make([]uint16, 256)
	if r, _, _ := procHidD_GetManufacturerString.Call(uintptr(h), uintptr(unsafe.Pointer(&mfr[0])), uintptr(len(mfr)*2)); r != 0 {
		info.Manufacturer = windows.UTF16ToString(mfr)
	}
	prod := make([]uint16, 256)
	if r, _, _ := procHidD_GetProductString.Call(uintptr(h), uintptr(unsafe.Pointer(&prod[0])), uintptr(len(prod)*2)); r != 0 {
		info.Product = windows.UTF16ToString(prod)
	}

	var preparsed uintptr
	if r, _, _ := procHidD_GetPreparsedData.Call(uintptr(h), uintptr(unsafe.Pointer(&preparsed))); r != 0 {
		var caps hidpCaps
		rc, _, _ := procHidP_GetCaps.Call(preparsed, uintptr(unsafe.Pointer(&caps)))
		procHidD_FreePreparsedData.Call(preparsed)
		if rc == hidpStatusSuccess {
			info.UsagePage = caps.usagePage
			info.Usage = caps.usage
		}
	}

	return info, true
}
