package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	m := NewModel(ctx, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.Bind(p)

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.page != nil {
		fm.page.close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
