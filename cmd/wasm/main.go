//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/demo"
	"github.com/graphica/graphica/internal/gui"
)

var (
	g        *core.Graphica
	width    = float64(core.DefaultWidth)
	height   = float64(core.DefaultHeight)
	lastJSON string
)

func main() {
	// Create the engine API object
	graphicaEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	graphicaEngine.Set("loadDemo", js.FuncOf(loadDemo))
	graphicaEngine.Set("stop", js.FuncOf(stop))
	graphicaEngine.Set("resize", js.FuncOf(resize))
	graphicaEngine.Set("pointerDown", js.FuncOf(pointerDown))
	graphicaEngine.Set("pointerMove", js.FuncOf(pointerMove))
	graphicaEngine.Set("pointerUp", js.FuncOf(pointerUp))
	graphicaEngine.Set("pointerLeave", js.FuncOf(pointerLeave))
	graphicaEngine.Set("wheel", js.FuncOf(wheel))
	graphicaEngine.Set("guiEvent", js.FuncOf(guiEvent))
	graphicaEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← engine) ---
	graphicaEngine.Set("listDemos", js.FuncOf(listDemos))
	graphicaEngine.Set("getFrame", js.FuncOf(getFrame))
	graphicaEngine.Set("getCamera", js.FuncOf(getCamera))
	graphicaEngine.Set("isRunning", js.FuncOf(isRunning))

	// Register on global scope
	js.Global().Set("graphicaEngine", graphicaEngine)

	// Signal that WASM is ready
	js.Global().Set("graphicaWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okValue() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func point(args []js.Value) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	return args[0].Float(), args[1].Float(), true
}

// --- Command Handlers ---

func loadDemo(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing demo name"})
	}
	if g != nil {
		g.Stop()
	}

	next, err := demo.Setup(args[0].String(), width, height, nil, demo.Options{})
	if err != nil {
		return errorValue(err)
	}
	g = next
	lastJSON = ""
	return okValue()
}

func stop(this js.Value, args []js.Value) interface{} {
	if g != nil {
		g.Stop()
	}
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	w, h, ok := point(args)
	if !ok {
		return nil
	}
	width, height = w, h
	if g != nil {
		g.Resize(w, h)
	}
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if x, y, ok := point(args); ok && g != nil {
		g.PointerDown(x, y)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if x, y, ok := point(args); ok && g != nil {
		g.PointerMove(x, y)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if x, y, ok := point(args); ok && g != nil {
		g.PointerUp(x, y)
	}
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	if g != nil {
		g.PointerLeave()
	}
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 || g == nil {
		return nil
	}
	g.Wheel(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

// guiEvent(id, eventJSON) routes a widget interaction.
func guiEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || g == nil {
		return js.ValueOf(map[string]interface{}{"error": "missing widget id or event"})
	}
	var ev gui.Event
	if err := json.Unmarshal([]byte(args[1].String()), &ev); err != nil {
		return errorValue(err)
	}
	if err := g.HandleGui(args[0].String(), ev); err != nil {
		return errorValue(err)
	}
	return okValue()
}

// tick(now) advances one frame. now is the requestAnimationFrame timestamp
// in milliseconds. The result carries the frame JSON and whether the
// frontend should request another frame.
func tick(this js.Value, args []js.Value) interface{} {
	if g == nil {
		return js.ValueOf(map[string]interface{}{"continue": false})
	}

	now := time.Now()
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		ms := args[0].Float()
		now = time.UnixMilli(0).Add(time.Duration(ms * float64(time.Millisecond)))
	}

	result := map[string]interface{}{"continue": g.Tick(now) == core.Continue}
	if err := g.Err(); err != nil {
		result["error"] = err.Error()
	}
	if f := g.Frame(); f != nil {
		if data, err := f.JSON(); err == nil {
			lastJSON = string(data)
			result["frame"] = lastJSON
		}
	}
	return js.ValueOf(result)
}

// --- Query Handlers ---

func listDemos(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(demo.All())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func getFrame(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(lastJSON)
}

func getCamera(this js.Value, args []js.Value) interface{} {
	if g == nil {
		return nil
	}
	data, err := json.Marshal(g.Camera().State())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func isRunning(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(g != nil && g.Running())
}
