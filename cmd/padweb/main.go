//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"sync"
	"syscall/js"
	"time"
)

// Browsers refresh gamepad snapshots once per animation frame; sampling
// faster only re-reads the same frame.
const sampleInterval = 16 * time.Millisecond

// padState is the streaming payload handed to the page. The page and the
// relay treat it as opaque bytes; only observer UIs decode it.
type padState struct {
	Index     int       `json:"index"`
	Axes      []float64 `json:"axes"`
	Buttons   []bool    `json:"buttons"`
	Values    []float64 `json:"values"`
	Timestamp float64   `json:"timestamp"`
}

type shim struct {
	mu       sync.Mutex
	selected int
	stop     chan struct{} // nil when not streaming
}

// connectedPad returns the gamepad at index if the browser reports it
// present and connected. Disconnected pads leave null holes in the array.
func connectedPad(index int) (js.Value, bool) {
	pads := js.Global().Get("navigator").Call("getGamepads")
	if index < 0 || index >= pads.Length() {
		return js.Value{}, false
	}
	pad := pads.Index(index)
	if pad.IsNull() || pad.IsUndefined() || !pad.Get("connected").Bool() {
		return js.Value{}, false
	}
	return pad, true
}

func snapshot(index int) (padState, bool) {
	pad, ok := connectedPad(index)
	if !ok {
		return padState{}, false
	}
	axes := pad.Get("axes")
	buttons := pad.Get("buttons")
	st := padState{
		Index:     index,
		Axes:      make([]float64, axes.Length()),
		Buttons:   make([]bool, buttons.Length()),
		Values:    make([]float64, buttons.Length()),
		Timestamp: pad.Get("timestamp").Float(),
	}
	for i := range st.Axes {
		st.Axes[i] = axes.Index(i).Float()
	}
	for i := range st.Buttons {
		b := buttons.Index(i)
		st.Buttons[i] = b.Get("pressed").Bool()
		st.Values[i] = b.Get("value").Float()
	}
	return st, true
}

// list prints the connected gamepads to the console and returns them as an
// array of {index,id,mapping,buttons,axes} objects.
func (s *shim) list(js.Value, []js.Value) interface{} {
	pads := js.Global().Get("navigator").Call("getGamepads")
	var out []interface{}
	fmt.Println("Available gamepads:")
	for i := 0; i < pads.Length(); i++ {
		pad, ok := connectedPad(i)
		if !ok {
			continue
		}
		id := pad.Get("id").String()
		mapping := pad.Get("mapping").String()
		buttons := pad.Get("buttons").Length()
		axes := pad.Get("axes").Length()
		fmt.Printf("  [%d] %s (%s) Buttons: %d Axes: %d\n", i, id, mapping, buttons, axes)
		out = append(out, map[string]interface{}{
			"index":   i,
			"id":      id,
			"mapping": mapping,
			"buttons": buttons,
			"axes":    axes,
		})
	}
	if len(out) == 0 {
		fmt.Println("No gamepads detected. Make sure a gamepad is connected and press any button on it.")
		return []interface{}{}
	}
	return out
}

func (s *shim) start(_ js.Value, args []js.Value) interface{} {
	if len(args) != 1 || args[0].Type() != js.TypeNumber {
		fmt.Println("padStartStreaming: want one integer gamepad index")
		return false
	}
	index := args[0].Int()
	pad, ok := connectedPad(index)
	if !ok {
		fmt.Printf("Invalid gamepad index: %d\n", index)
		return false
	}

	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
	}
	s.stop = make(chan struct{})
	s.selected = index
	go s.run(index, s.stop)
	s.mu.Unlock()

	fmt.Printf("Starting to stream input from gamepad %d (%s)\n", index, pad.Get("id").String())
	fmt.Println("Call padStopStreaming() to stop.")
	return true
}

func (s *shim) stopStreaming(js.Value, []js.Value) interface{} {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
		s.selected = -1
		fmt.Println("Stopped streaming gamepad input.")
	}
	s.mu.Unlock()
	return js.Undefined()
}

func (s *shim) status(js.Value, []js.Value) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"streaming": s.stop != nil,
		"selected":  s.selected,
	}
}

// run samples the selected pad until stop closes. A pad that vanishes
// mid-stream produces no snapshots; streaming stays armed in case it
// returns, so stopping is always the page's call.
func (s *shim) run(index int, stop chan struct{}) {
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			st, ok := snapshot(index)
			if !ok {
				continue
			}
			blob, err := json.Marshal(st)
			if err != nil {
				continue
			}
			if cb := js.Global().Get("padOnState"); cb.Type() == js.TypeFunction {
				cb.Invoke(string(blob))
			}
		}
	}
}

func main() {
	s := &shim{selected: -1}
	js.Global().Set("padListGamepads", js.FuncOf(s.list))
	js.Global().Set("padStartStreaming", js.FuncOf(s.start))
	js.Global().Set("padStopStreaming", js.FuncOf(s.stopStreaming))
	js.Global().Set("padStreamingStatus", js.FuncOf(s.status))

	fmt.Println("padweb initialized. Use the padListGamepads/padStartStreaming interface to interact.")
	select {}
}
