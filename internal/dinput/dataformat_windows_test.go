//go:build windows

package dinput

import (
	"testing"
	"unsafe"
)

func TestJoyStateLayout(t *testing.T) {
	if size := unsafe.Sizeof(diJoyState2{}); size != 272 {
		t.Fatalf("diJoyState2 size = %d, want 272", size)
	}
	var st diJoyState2
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Slider", unsafe.Offsetof(st.Slider), 24},
		{"POV", unsafe.Offsetof(st.POV), 32},
		{"Buttons", unsafe.Offsetof(st.Buttons), 48},
		{"VX", unsafe.Offsetof(st.VX), 176},
		{"AX", unsafe.Offsetof(st.AX), 208},
		{"FX", unsafe.Offsetof(st.FX), 240},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("offsetof(%s) = %d, want %d", o.name, o.got, o.want)
		}
	}
}

func TestJoystickFormatShape(t *testing.T) {
	if n := len(joyFormatObjects); n != 164 {
		t.Fatalf("object count = %d, want 164", n)
	}
	if joyFormat.numObjs != 164 || joyFormat.dataSize != 272 {
		t.Fatalf("format header: numObjs=%d dataSize=%d", joyFormat.numObjs, joyFormat.dataSize)
	}

	// First entry is the X axis at offset 0.
	first := joyFormatObjects[0]
	if first.guid != &guidXAxis || first.ofs != 0 || first.flags != didoiAspectPosition {
		t.Fatalf("first object = %+v", first)
	}

	// Buttons occupy one byte each right after the hats.
	btn := joyFormatObjects[12]
	if btn.guid != nil || btn.ofs != 48 || btn.typ != didftButton|didftAnyInstance|didftOptional {
		t.Fatalf("first button object = %+v", btn)
	}

	var axes, buttons, povs int
	for _, o := range joyFormatObjects {
		switch {
		case o.typ&didftButton != 0:
			buttons++
		case o.typ&didftPOV != 0:
			povs++
		case o.typ&didftAxis != 0:
			axes++
		}
	}
	if axes != 32 || buttons != 128 || povs != 4 {
		t.Fatalf("object mix: axes=%d buttons=%d povs=%d", axes, buttons, povs)
	}
}

func TestGUIDRoundTrip(t *testing.T) {
	got := guidToNative(guidFrom(iidIDirectInput8W))
	if got != iidIDirectInput8W {
		t.Fatalf("round trip changed GUID: %+v", got)
	}
}
