package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/nwcreek/internal/modules/pages"
)

// status renders what a page shows besides its data: the loading hint, the
// load error, the empty message and the outcome of the last mutation.
type status struct {
	phase     pages.Phase
	loading   bool
	loadErr   string
	formError string
	notice    string
	empty     string
}

func (s status) view(t Theme) string {
	var lines []string
	if s.loading {
		lines = append(lines, t.muted().Render("Loading…"))
	}
	if s.loadErr != "" {
		lines = append(lines, t.errorStyle().Render(s.loadErr))
	}
	if s.phase == pages.PhaseEmpty && s.empty != "" {
		lines = append(lines, t.muted().Render(s.empty))
	}
	if s.formError != "" {
		lines = append(lines, t.errorStyle().Render(s.formError))
	}
	if s.notice != "" {
		lines = append(lines, t.noticeStyle().Render(s.notice))
	}
	return strings.Join(lines, "\n")
}

// fieldErrors extracts per-field messages from a validation error.
func fieldErrors(err error) map[string]string {
	var fe pages.FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

func newTable(cols []table.Column) table.Model {
	tbl := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return tbl
}

func styleTable(tbl *table.Model, t Theme) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Info).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.Primary)
	s.Cell = s.Cell.Foreground(t.Text)
	tbl.SetStyles(s)
}

// selected returns the cursor row, -1 when the table is empty.
func selected(tbl table.Model, n int) int {
	i := tbl.Cursor()
	if i < 0 || i >= n {
		return -1
	}
	return i
}

func heading(t Theme, title, right string) string {
	h := t.title().Render(title)
	if right != "" {
		h += "  " + t.muted().Render(right)
	}
	return h
}

func card(t Theme, label, value string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Render(t.muted().Render(label) + "\n" + value)
}
