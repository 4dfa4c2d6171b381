package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 100
	bannerHeight = 32 // terminals shorter than this get a one-line title
)

func (m Model) View() string {
	t := m.theme
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	inner := width - 4

	header := m.viewHeader(t, inner)
	footer := m.viewFooter(t, inner)
	body := m.screen.view(t, inner)

	if m.height > 0 {
		avail := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
		body = clip(body, m.scroll, avail)
	}

	page := lipgloss.NewStyle().Padding(0, 2).Background(t.Base).Foreground(t.Text)
	if m.width > 0 {
		page = page.Width(m.width)
	}
	if m.height > 0 {
		page = page.Height(m.height)
	}
	return page.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer))
}

// bodyHeight approximates the rows available to the page body.
func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	return m.height - 8
}

// clip shows lines [offset, offset+height) of s.
func clip(s string, offset, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if offset > len(lines)-height {
		offset = len(lines) - height
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}

func (m Model) viewHeader(t Theme, width int) string {
	var title string
	if m.height >= bannerHeight {
		title = GradientText(renderFiglet("Northwest Creek"), t.Primary, t.Accent)
	} else {
		title = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("Northwest Creek")
	}

	var right string
	if u := m.screen.user(); u != nil {
		right = t.muted().Render(u.Email) + " " + t.badge(u.SubscriptionTier)
	}

	var nav []string
	if m.page.env.LoggedIn() {
		for i, r := range tabs {
			label := fmt.Sprintf("%d %s", i+1, routeTitles[r])
			if r == m.route {
				nav = append(nav, lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Underline(true).Render(label))
			} else {
				nav = append(nav, t.muted().Render(label))
			}
		}
	} else {
		nav = append(nav, lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(routeTitles[m.route]))
	}
	navLine := strings.Join(nav, "   ")
	if right != "" {
		gap := width - lipgloss.Width(navLine) - lipgloss.Width(right)
		if gap < 2 {
			gap = 2
		}
		navLine += strings.Repeat(" ", gap) + right
	}

	sep := GradientText(strings.Repeat("─", max(width, 1)), t.Primary, t.Accent)
	return lipgloss.JoinVertical(lipgloss.Left, title, "", navLine, sep)
}

func (m Model) viewFooter(t Theme, width int) string {
	var lines []string
	if m.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Width(width).Render(m.status))
	}
	if m.prompt != nil {
		lines = append(lines, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Warning).
			Padding(0, 1).
			Render(m.prompt.prompt+"  "+t.muted().Render("y / n")))
	}

	bindings := append([]key.Binding{}, m.screen.help()...)
	bindings = append(bindings, keys.Theme)
	if m.page.env.LoggedIn() {
		bindings = append(bindings, keys.Tabs, keys.Logout)
	}
	if m.screen.capturing() {
		bindings = append(bindings, keys.ForceQuit)
	} else {
		bindings = append(bindings, keys.Quit)
	}
	lines = append(lines, m.help.ShortHelpView(bindings))
	return strings.Join(lines, "\n")
}
