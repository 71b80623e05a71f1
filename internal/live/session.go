package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/demo"
)

const inboxSize = 64

var ErrIdle = errors.New("session idle")

// Session runs one demo scene for one viewer. All orchestrator calls
// happen on the goroutine running Run.
type Session struct {
	ID   string
	Demo string

	g        *core.Graphica
	inbox    chan *Message
	outbox   func(*Message)
	interval time.Duration
	seq      int64
	last     []byte

	// Idle ends the session when no input arrived for that long.
	Idle      time.Duration
	lastInput time.Time
}

// NewSession builds the named demo at the given viewport size. Frames and
// errors are handed to send.
func NewSession(name string, width, height float64, interval time.Duration, opts demo.Options, send func(*Message)) (*Session, error) {
	s := &Session{
		ID:       uuid.NewString(),
		Demo:     name,
		inbox:    make(chan *Message, inboxSize),
		outbox:   send,
		interval: interval,
	}
	g, err := demo.Setup(name, width, height, core.RendererFunc(s.sendFrame), opts)
	if err != nil {
		return nil, err
	}
	s.g = g
	return s, nil
}

// Deliver queues a client message for the next tick. It reports false when
// the inbox is full and the message was dropped.
func (s *Session) Deliver(msg *Message) bool {
	select {
	case s.inbox <- msg:
		return true
	default:
		return false
	}
}

// Run ticks the scene until ctx is done or the scene stops.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.lastInput = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-s.inbox:
			s.handle(msg)

		case now := <-ticker.C:
			// drain pending input so a frame reflects all of it
			for drained := false; !drained; {
				select {
				case msg := <-s.inbox:
					s.handle(msg)
				default:
					drained = true
				}
			}
			if s.Idle > 0 && now.Sub(s.lastInput) > s.Idle {
				return ErrIdle
			}
			if s.g.Tick(now) == core.Stop {
				return s.stop()
			}
		}
	}
}

func (s *Session) stop() error {
	err := s.g.Err()
	payload := ErrorPayload{}
	if err != nil {
		payload.Message = err.Error()
	}
	if msg, merr := newMessage(TypeStopped, payload); merr == nil {
		s.outbox(msg)
	}
	if err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}
	return nil
}

func (s *Session) handle(msg *Message) {
	s.lastInput = time.Now()
	var err error
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if err = json.Unmarshal(msg.Payload, &p); err != nil {
			break
		}
		switch msg.Type {
		case TypePointerDown:
			s.g.PointerDown(p.X, p.Y)
		case TypePointerMove:
			s.g.PointerMove(p.X, p.Y)
		default:
			s.g.PointerUp(p.X, p.Y)
		}
	case TypePointerLeave:
		s.g.PointerLeave()
	case TypeWheel:
		var p WheelPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			s.g.Wheel(p.X, p.Y, p.Delta)
		}
	case TypeResize:
		var p ResizePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			s.g.Resize(p.Width, p.Height)
		}
	case TypeGui:
		var p GuiPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = s.g.HandleGui(p.ID, p.Event)
		}
	case TypeStop:
		s.g.Stop()
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		slog.Warn("invalid live message", "session", s.ID, "type", msg.Type, "error", err)
		if out, merr := newMessage(TypeError, ErrorPayload{Message: err.Error()}); merr == nil {
			s.outbox(out)
		}
	}
}

// sendFrame is the session's renderer. A frame whose content equals the
// previous one is not sent again.
func (s *Session) sendFrame(f *core.Frame) error {
	content, err := json.Marshal(struct {
		Camera   any `json:"c"`
		Commands any `json:"d"`
		Widgets  any `json:"w"`
	}{f.Camera, f.Commands, f.Widgets})
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if bytes.Equal(content, s.last) {
		return nil
	}
	s.last = content

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	s.seq++
	s.outbox(&Message{Type: TypeFrame, SessionID: s.ID, Seq: s.seq, Payload: data})
	return nil
}
