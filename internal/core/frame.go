package core

import (
	"encoding/json"

	"github.com/graphica/graphica/internal/gui"
	"github.com/graphica/graphica/internal/scene"
)

// Frame is everything a host needs to present one tick.
type Frame struct {
	Number     uint64              `json:"number"`
	ElapsedMS  float64             `json:"elapsedMs"`
	Background string              `json:"background"`
	Camera     scene.CameraState   `json:"camera"`
	Commands   []scene.DrawCommand `json:"commands"`
	Widgets    []gui.State         `json:"widgets,omitempty"`
}

// JSON serializes the frame for the browser and websocket hosts.
func (f *Frame) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// Renderer presents compiled frames.
type Renderer interface {
	Render(f *Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame) error

func (fn RendererFunc) Render(f *Frame) error { return fn(f) }
