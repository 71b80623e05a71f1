package live

import (
	"encoding/json"

	"github.com/graphica/graphica/internal/gui"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type WelcomePayload struct {
	SessionID string   `json:"sessionId"`
	Demo      string   `json:"demo"`
	Demos     []string `json:"demos"`
	TickRate  int      `json:"tickRate"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type WheelPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type GuiPayload struct {
	ID    string    `json:"id"`
	Event gui.Event `json:"event"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// Server to client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeStopped = "stopped"
	TypeError   = "error"

	// Client to server
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeWheel        = "wheel"
	TypeResize       = "resize"
	TypeGui          = "gui.event"
	TypeStop         = "stop"
)

func newMessage(typ string, payload any) (*Message, error) {
	msg := &Message{Type: typ}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg.Payload = data
	return msg, nil
}
