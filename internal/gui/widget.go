package gui

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/graphica/graphica/internal/typeid"
)

var (
	ErrUnsupportedAction = errors.New("unsupported widget action")
	ErrInvalidRange      = errors.New("slider min must be below max")
)

// Widget kinds.
const (
	KindButton = "button"
	KindSlider = "slider"
	KindInput  = "input"
	KindLegend = "legend"
)

// State is the host-facing description of a widget.
type State struct {
	ID      string        `json:"id"`
	Kind    string        `json:"kind"`
	Label   string        `json:"label"`
	Value   float64       `json:"value,omitempty"`
	Min     float64       `json:"min,omitempty"`
	Max     float64       `json:"max,omitempty"`
	Step    float64       `json:"step,omitempty"`
	Text    string        `json:"text,omitempty"`
	Entries []LegendEntry `json:"entries,omitempty"`
}

// Event is user input for a widget, decoded by the host.
type Event struct {
	Action string  `json:"action"` // click, change, input, submit, toggle
	Value  float64 `json:"value,omitempty"`
	Text   string  `json:"text,omitempty"`
	Index  int     `json:"index,omitempty"`
}

// Widget is anything the orchestrator can list for hosts.
type Widget interface {
	ID() string
	State() State
	Handle(ev Event) error
}

type base struct {
	id    string
	label string
}

func newBase(label string) base {
	return base{id: typeid.NewWidgetID(), label: label}
}

func (b *base) ID() string    { return b.id }
func (b *base) Label() string { return b.label }

// Button notifies observers on click.
type Button struct {
	base
	Observable[*Button]
}

func NewButton(label string) *Button {
	return &Button{base: newBase(label)}
}

func (b *Button) Click() { b.Notify(b) }

func (b *Button) State() State {
	return State{ID: b.id, Kind: KindButton, Label: b.label}
}

func (b *Button) Handle(ev Event) error {
	if ev.Action != "click" {
		return fmt.Errorf("%s %q: %w", KindButton, ev.Action, ErrUnsupportedAction)
	}
	b.Click()
	return nil
}

// Slider holds a value in [min, max] snapped to step.
type Slider struct {
	base
	Observable[float64]
	min, max, step float64
	value          float64
}

// NewSlider creates a slider. A step of zero disables snapping.
func NewSlider(label string, min, max, step, value float64) (*Slider, error) {
	if !(min < max) {
		return nil, fmt.Errorf("slider %q [%v, %v]: %w", label, min, max, ErrInvalidRange)
	}
	s := &Slider{base: newBase(label), min: min, max: max, step: math.Abs(step)}
	s.value = s.normalize(value)
	return s, nil
}

func (s *Slider) Value() float64 { return s.value }

func (s *Slider) normalize(v float64) float64 {
	if s.step > 0 {
		v = s.min + math.Round((v-s.min)/s.step)*s.step
	}
	return math.Max(s.min, math.Min(s.max, v))
}

// SetValue clamps and snaps v, notifying observers when the value changed.
func (s *Slider) SetValue(v float64) {
	v = s.normalize(v)
	if v == s.value {
		return
	}
	s.value = v
	s.Notify(v)
}

func (s *Slider) State() State {
	return State{ID: s.id, Kind: KindSlider, Label: s.label, Value: s.value, Min: s.min, Max: s.max, Step: s.step}
}

func (s *Slider) Handle(ev Event) error {
	switch ev.Action {
	case "change", "input":
		s.SetValue(ev.Value)
		return nil
	}
	return fmt.Errorf("%s %q: %w", KindSlider, ev.Action, ErrUnsupportedAction)
}

// InputField notifies observers with the submitted text.
type InputField struct {
	base
	Observable[string]
	text string
}

func NewInputField(label, text string) *InputField {
	return &InputField{base: newBase(label), text: text}
}

func (f *InputField) Text() string { return f.text }

// SetText changes the text without submitting it.
func (f *InputField) SetText(s string) { f.text = s }

// Submit notifies observers with the current text.
func (f *InputField) Submit() { f.Notify(f.text) }

func (f *InputField) State() State {
	return State{ID: f.id, Kind: KindInput, Label: f.label, Text: f.text}
}

func (f *InputField) Handle(ev Event) error {
	switch ev.Action {
	case "input":
		f.SetText(ev.Text)
	case "submit":
		f.SetText(ev.Text)
		f.Submit()
	default:
		return fmt.Errorf("%s %q: %w", KindInput, ev.Action, ErrUnsupportedAction)
	}
	return nil
}

// LegendEntry is one row of a legend.
type LegendEntry struct {
	Label   string `json:"label"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
}

// LegendBox lists colored entries that can be toggled on and off.
type LegendBox struct {
	base
	Observable[LegendEntry]
	entries []LegendEntry
}

func NewLegendBox(label string, entries ...LegendEntry) *LegendBox {
	return &LegendBox{base: newBase(label), entries: slices.Clone(entries)}
}

// Add appends a visible entry and returns its index.
func (l *LegendBox) Add(label, color string) int {
	l.entries = append(l.entries, LegendEntry{Label: label, Color: color, Visible: true})
	return len(l.entries) - 1
}

func (l *LegendBox) Entries() []LegendEntry { return l.entries }

// Toggle flips entry i and notifies observers with its new state.
func (l *LegendBox) Toggle(i int) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("legend entry %d out of range", i)
	}
	l.entries[i].Visible = !l.entries[i].Visible
	l.Notify(l.entries[i])
	return nil
}

func (l *LegendBox) State() State {
	return State{ID: l.id, Kind: KindLegend, Label: l.label, Entries: slices.Clone(l.entries)}
}

func (l *LegendBox) Handle(ev Event) error {
	if ev.Action != "toggle" {
		return fmt.Errorf("%s %q: %w", KindLegend, ev.Action, ErrUnsupportedAction)
	}
	return l.Toggle(ev.Index)
}
