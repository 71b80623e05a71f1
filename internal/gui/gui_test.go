package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/typeid"
)

func TestObservable(t *testing.T) {
	var o Observable[int]
	var got []int
	a := o.AddObserver(func(v int) { got = append(got, v) })
	o.AddObserver(func(v int) { got = append(got, -v) })

	o.Notify(1)
	assert.Equal(t, []int{1, -1}, got)

	assert.True(t, o.RemoveObserver(a))
	assert.False(t, o.RemoveObserver(a))
	o.Notify(2)
	assert.Equal(t, []int{1, -1, -2}, got)
	assert.Equal(t, 1, o.Observers())
}

func TestSliderClampsAndSnaps(t *testing.T) {
	s, err := NewSlider("a", -1, 1, 0.25, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0.25, s.Value())
	require.NoError(t, typeid.Validate(s.ID(), typeid.PrefixWidget))

	var seen []float64
	s.AddObserver(func(v float64) { seen = append(seen, v) })

	s.SetValue(5)
	s.SetValue(0.9)
	s.SetValue(-0.6)
	require.NoError(t, s.Handle(Event{Action: "change", Value: -0.55}))
	assert.Equal(t, []float64{1, -0.5}, seen, "unchanged values are not reported")

	assert.ErrorIs(t, s.Handle(Event{Action: "click"}), ErrUnsupportedAction)

	_, err = NewSlider("bad", 1, 1, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestButtonAndInput(t *testing.T) {
	b := NewButton("go")
	clicks := 0
	b.AddObserver(func(*Button) { clicks++ })
	require.NoError(t, b.Handle(Event{Action: "click"}))
	b.Click()
	assert.Equal(t, 2, clicks)
	assert.Equal(t, KindButton, b.State().Kind)

	f := NewInputField("f(x)", "x")
	var submitted []string
	f.AddObserver(func(s string) { submitted = append(submitted, s) })
	require.NoError(t, f.Handle(Event{Action: "input", Text: "x^2"}))
	assert.Empty(t, submitted)
	require.NoError(t, f.Handle(Event{Action: "submit", Text: "sin(x)"}))
	assert.Equal(t, []string{"sin(x)"}, submitted)
	assert.Equal(t, "sin(x)", f.State().Text)
}

func TestLegendToggle(t *testing.T) {
	l := NewLegendBox("curves")
	l.Add("f", "#f00")
	l.Add("g", "#0f0")

	var last LegendEntry
	l.AddObserver(func(e LegendEntry) { last = e })
	require.NoError(t, l.Handle(Event{Action: "toggle", Index: 1}))
	assert.Equal(t, LegendEntry{Label: "g", Color: "#0f0", Visible: false}, last)
	assert.False(t, l.State().Entries[1].Visible)
	assert.Error(t, l.Toggle(7))
}
