package components

import (
	"testing"

	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/Veraticus/carepoint/internal/tui/tuitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_FocusWraps(t *testing.T) {
	f := newForm(1,
		field{label: "Date"},
		field{label: "Note"},
	)
	require.Equal(t, 3, f.stops())
	assert.Equal(t, 0, f.focus)
	assert.True(t, f.inputs[0].Focused())

	f.next()
	f.next()
	assert.Equal(t, 2, f.focus)
	assert.False(t, f.onInput())
	assert.False(t, f.inputs[0].Focused())
	assert.False(t, f.inputs[1].Focused())

	f.next()
	assert.Equal(t, 0, f.focus)

	f.prev()
	assert.Equal(t, 2, f.focus)
}

func TestForm_UpdateGoesToFocusedInput(t *testing.T) {
	f := newForm(1, field{label: "Name"}, field{label: "Email"})

	for _, msg := range tuitest.Type("ada") {
		f, _ = f.update(msg)
	}
	f.next()
	for _, msg := range tuitest.Type("x@y.z") {
		f, _ = f.update(msg)
	}
	f.next()
	f, _ = f.update(tuitest.KeyPress("q"))

	assert.Equal(t, "ada", f.value(0))
	assert.Equal(t, "x@y.z", f.value(1))

	f.reset()
	assert.Empty(t, f.value(0))
	assert.Empty(t, f.value(1))
	assert.Equal(t, 0, f.focus)
}

func TestForm_CharLimitAndPassword(t *testing.T) {
	f := newForm(0,
		field{label: "Date", limit: 4},
		field{label: "Password", password: true},
	)
	for _, msg := range tuitest.Type("2026-10") {
		f, _ = f.update(msg)
	}
	assert.Equal(t, "2026", f.value(0))

	f.next()
	for _, msg := range tuitest.Type("hunter2") {
		f, _ = f.update(msg)
	}
	view := tuitest.StripANSI(f.view(themes.Default))
	assert.Contains(t, view, "Password")
	assert.NotContains(t, view, "hunter2")
	assert.Equal(t, "hunter2", f.value(1))
}

func TestSelector(t *testing.T) {
	out := tuitest.StripANSI(selector(themes.Default, []string{"07:00", "08:00"}, 1, true))
	assert.True(t, tuitest.ContainsInOrder(out, "07:00", "08:00"))

	none := tuitest.StripANSI(selector(themes.Default, []string{"A", "B"}, -1, false))
	assert.True(t, tuitest.ContainsInOrder(none, "A", "B"))
}
