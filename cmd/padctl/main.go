package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/config"
	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/dinput"
	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/hid"
	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/usbprobe"
	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/xinput"
	"github.com/qwertybob1978/msi-gamecontroller-cli/pkg/gamepad"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	var (
		configPath = flag.String("config", "", "path to padctl.yaml")
		listHID    = flag.Bool("list-hid", false, "list raw HID interfaces and exit")
		listUSB    = flag.Bool("list-usb", false, "list USB HID devices through libusb and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	if *listHID {
		return runListHID()
	}
	if *listUSB {
		return runListUSB()
	}

	eng, cleanup := buildEngine(cfg)
	defer cleanup()

	if flag.NArg() < 1 {
		printUsageAndList(eng)
		return 0
	}

	index, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid argument. Must be an integer device index.\n\n")
		printUsageAndList(eng)
		return 1
	}

	devices := eng.Devices()
	if index < 0 || index >= len(devices) {
		fmt.Fprintf(os.Stderr, "Device index out of range.\n\n")
		printUsageAndList(eng)
		return 1
	}

	sel := devices[index]
	fmt.Printf("Selected [%d] %s  %s\n", sel.Index, kindLabel(sel.Kind), sel.Name)

	if sel.Kind == gamepad.KindDirectInput {
		window, err := dinput.NewMessageWindow()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create hidden window.")
			slog.Debug("hidden window", slog.Any("error", err))
			return 4
		}
		defer dinput.DestroyMessageWindow(window)
		eng.Window = window
		fmt.Println("Reading DirectInput device (Ctrl+C to stop)...")
	} else {
		fmt.Printf("Reading XInput controller %d (Ctrl+C to stop)...\n", sel.Slot)
	}

	outcome, err := eng.Stream(ctx, sel, printState)
	switch outcome {
	case gamepad.OutcomeStopped:
		return 0
	case gamepad.OutcomeDisconnected:
		if sel.Kind == gamepad.KindXInput {
			fmt.Println("Controller disconnected.")
		} else {
			fmt.Println("Device disconnected or error.")
		}
		return 1
	}
	fmt.Fprintln(os.Stderr, err)
	return exitCode(err)
}

// buildEngine wires whichever backends this platform offers. A missing
// backend is not fatal here; selecting one of its devices is.
func buildEngine(cfg *config.Config) (*gamepad.Engine, func()) {
	eng := &gamepad.Engine{
		PollInterval: cfg.Stream.PollInterval(),
		WaitTimeout:  cfg.Stream.WaitTimeout(),
		BufferSize:   cfg.Stream.BufferSize,
	}
	if len(cfg.Filter.ProxyMarkers) > 0 {
		eng.IsProxy = gamepad.ProxyFilter(cfg.Filter.ProxyMarkers...)
	}

	if x, err := xinput.New(); err != nil {
		slog.Warn("xinput unavailable", slog.Any("error", err))
	} else {
		eng.XInput = x
	}

	cleanup := func() {}
	if d, err := dinput.New(); err != nil {
		slog.Warn("directinput unavailable", slog.Any("error", err))
	} else {
		eng.DirectInput = d
		cleanup = func() { d.Close() }
	}
	return eng, cleanup
}

// exitCode distinguishes the setup stage that failed, mirroring the
// stage numbering streaming errors have always used.
func exitCode(err error) int {
	var se *gamepad.SetupError
	if errors.As(err, &se) {
		switch se.Step {
		case gamepad.StepBackend:
			return 2
		case gamepad.StepOpen:
			return 3
		case gamepad.StepDataFormat:
			return 5
		case gamepad.StepCoopLevel, gamepad.StepBufferSize:
			return 6
		case gamepad.StepWaitObject:
			return 7
		case gamepad.StepNotification:
			return 8
		case gamepad.StepAcquire:
			return 9
		}
	}
	return 10
}

func kindLabel(k gamepad.Kind) string {
	if k == gamepad.KindXInput {
		return "XInput   "
	}
	return "DirectInp"
}

func printUsageAndList(eng *gamepad.Engine) {
	fmt.Println("Usage: padctl [flags] <deviceIndex>")
	fmt.Println("No argument: lists available devices with their integer index.")
	fmt.Println()

	devices := eng.Devices()
	if len(devices) == 0 {
		fmt.Println("No game controllers detected.")
		return
	}

	fmt.Println("Available devices:")
	for _, d := range devices {
		line := fmt.Sprintf("  [%d] %s  %s", d.Index, kindLabel(d.Kind), d.Name)
		if d.Kind == gamepad.KindXInput {
			line += fmt.Sprintf(" (user=%d)", d.Slot)
		}
		fmt.Println(line)
	}
}

func printState(s gamepad.State) {
	switch st := s.(type) {
	case gamepad.PadState:
		fmt.Printf("LX=%6d  LY=%6d  RX=%6d  RY=%6d  LT=%3d  RT=%3d  Buttons=0x%04x  DPad(U/D/L/R)=%d/%d/%d/%d\n",
			st.LeftX, st.LeftY, st.RightX, st.RightY,
			st.LeftTrigger, st.RightTrigger, st.Buttons,
			bit(st.Buttons&gamepad.ButtonDPadUp),
			bit(st.Buttons&gamepad.ButtonDPadDown),
			bit(st.Buttons&gamepad.ButtonDPadLeft),
			bit(st.Buttons&gamepad.ButtonDPadRight))
	case gamepad.JoyState:
		var b strings.Builder
		fmt.Fprintf(&b, "AXES: lX=%6d lY=%6d lZ=%6d lRx=%6d lRy=%6d lRz=%6d S0=%6d S1=%6d | POV: ",
			st.Axes[0], st.Axes[1], st.Axes[2], st.Axes[3], st.Axes[4], st.Axes[5],
			st.Sliders[0], st.Sliders[1])
		for _, pov := range st.POVs {
			if pov < 0 {
				b.WriteString("---- ")
			} else {
				fmt.Fprintf(&b, "%4d ", pov)
			}
		}
		b.WriteString("| BTN: ")
		for i := 0; i < 32; i++ {
			if st.Buttons[i] {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		fmt.Println(b.String())
	}
}

func bit(v uint16) int {
	if v != 0 {
		return 1
	}
	return 0
}

func runListHID() int {
	lister, err := hid.NewLister()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	infos, err := lister.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("No HID interfaces found.")
		return 0
	}
	for _, in := range infos {
		marker := " "
		if in.IsController() {
			marker = "*"
		}
		fmt.Printf("%s %04x:%04x  usage=%02x/%02x  %s %s\n",
			marker, in.VendorID, in.ProductID, in.UsagePage, in.Usage,
			in.Manufacturer, in.Product)
		fmt.Printf("      %s\n", in.Path)
	}
	return 0
}

func runListUSB() int {
	infos, err := usbprobe.List(0, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("No USB HID devices found.")
		return 0
	}
	for i, in := range infos {
		fmt.Printf("USB #%d  %04x:%04x  %s %s\n", i, in.VendorID, in.ProductID, in.Manufacturer, in.Product)
		if in.Serial != "" {
			fmt.Printf("        serial=%s\n", in.Serial)
		}
		fmt.Printf("        %s\n", in.Path)
	}
	return 0
}
