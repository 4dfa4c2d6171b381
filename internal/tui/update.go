package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/nwcreek/internal/modules/pages"
)

// pageMsg is a message produced on behalf of one page lifetime.
type pageMsg interface {
	generation() int
}

func (m doneMsg) generation() int        { return m.gen }
func (m liveMsg) generation() int        { return m.gen }
func (m priceMsg) generation() int       { return m.gen }
func (m suggestTickMsg) generation() int { return m.gen }
func (m suggestMsg) generation() int     { return m.gen }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if pm, ok := msg.(pageMsg); ok && pm.generation() != m.gen {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
			m.width = m.cfg.MaxWidth
		}
		m.help.Width = m.width
		return m, nil

	case confirmMsg:
		m.prompt = &msg
		return m, nil

	case doneMsg:
		if msg.target != "" {
			return m, m.navigate(msg.target)
		}
		return m, m.screen.update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.screen.update(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != nil {
		switch {
		case key.Matches(msg, keys.Yes):
			m.answer(true)
		case key.Matches(msg, keys.No), key.Matches(msg, keys.ForceQuit):
			m.answer(false)
		}
		return m, nil
	}

	loggedIn := m.page.env.LoggedIn()
	switch {
	case key.Matches(msg, keys.ForceQuit):
		m.page.close()
		return m, tea.Quit
	case key.Matches(msg, keys.Theme):
		name, err := pages.ToggleTheme(m.cfg.Store)
		if err != nil {
			m.log.Error().Err(err).Msg("Failed to save theme")
			return m, nil
		}
		m.theme = ThemeFor(name)
		return m, nil
	case key.Matches(msg, keys.Logout) && loggedIn:
		if err := pages.Logout(m.page.env); err != nil {
			m.log.Error().Err(err).Msg("Failed to log out")
			return m, nil
		}
		return m, m.navigate(m.page.nav.take())
	case key.Matches(msg, keys.Pricing):
		return m, m.open(routePricing, nil)
	case !loggedIn && key.Matches(msg, keys.Login):
		return m, m.open(routeLogin, nil)
	case !loggedIn && key.Matches(msg, keys.Register):
		return m, m.open(routeRegister, nil)
	case key.Matches(msg, keys.Verify) && (m.route == routeLogin || m.route == routeRegister):
		return m, m.open(routeVerify, nil)
	}

	if m.screen.capturing() {
		return m, m.screen.update(msg)
	}

	switch msg.String() {
	case "pgdown":
		m.scroll += m.bodyHeight() / 2
		return m, nil
	case "pgup":
		m.scroll -= m.bodyHeight() / 2
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.page.close()
		return m, tea.Quit
	case key.Matches(msg, keys.Tabs) && loggedIn:
		i := int(msg.String()[0] - '1')
		if i >= 0 && i < len(tabs) {
			return m, m.open(tabs[i], nil)
		}
	}
	return m, m.screen.update(msg)
}

func (m *Model) answer(ok bool) {
	m.prompt.answer <- ok
	m.prompt = nil
}
