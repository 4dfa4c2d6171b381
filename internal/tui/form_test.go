package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormTypingAndNavigation(t *testing.T) {
	f := newForm(
		fieldSpec{name: "ticker", label: "Ticker"},
		fieldSpec{name: "notes", label: "Notes"},
	)
	f.Focus()
	assert.True(t, f.Active())
	assert.Equal(t, "ticker", f.Focused())

	f.HandleKey(runes("aapl"))
	f.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "notes", f.Focused())
	f.HandleKey(runes("long term"))

	assert.Equal(t, "aapl", f.Value("ticker"))
	assert.Equal(t, "long term", f.Value("notes"))

	f.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "ticker", f.Focused())

	submitted, _ := f.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, submitted)

	f.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, f.Active())
}

func TestFormReset(t *testing.T) {
	f := newForm(fieldSpec{name: "a", label: "A"}, fieldSpec{name: "b", label: "B"})
	f.Set("a", "1")
	f.Set("b", "2")
	f.FocusField("b")
	assert.Equal(t, "b", f.Focused())

	f.Reset()
	assert.Empty(t, f.Value("a"))
	assert.Empty(t, f.Value("b"))
	assert.Equal(t, "a", f.Focused())
	assert.True(t, f.Active())
}

func TestFormViewShowsFieldErrors(t *testing.T) {
	f := newForm(fieldSpec{name: "ticker", label: "Ticker"})
	out := f.View(Dark, map[string]string{"ticker": "is required"})
	assert.Contains(t, out, "Ticker")
	assert.Contains(t, out, "is required")
}

func TestClip(t *testing.T) {
	body := "1\n2\n3\n4\n5"
	assert.Equal(t, "1\n2", clip(body, 0, 2))
	assert.Equal(t, "3\n4", clip(body, 2, 2))
	assert.Equal(t, "4\n5", clip(body, 10, 2), "offset is clamped to the last page")
	assert.Equal(t, body, clip(body, 0, 10))
}
