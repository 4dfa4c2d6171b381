package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/nwcreek/internal/modules/tiers"
)

// Theme holds the semantic color palette of the TUI.
type Theme struct {
	Name    string
	Base    lipgloss.Color
	Surface lipgloss.Color
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Dark uses the CharmTone palette.
var Dark = Theme{
	Name:    "dark",
	Base:    lipgloss.Color("#201F26"), // Pepper
	Surface: lipgloss.Color("#2D2C35"), // BBQ
	Border:  lipgloss.Color("#4D4C57"), // Iron
	Muted:   lipgloss.Color("#858392"), // Squid
	Text:    lipgloss.Color("#DFDBDD"), // Ash
	Primary: lipgloss.Color("#6B50FF"), // Charple
	Accent:  lipgloss.Color("#FF60FF"), // Dolly
	Success: lipgloss.Color("#00FFB2"), // Julep
	Warning: lipgloss.Color("#FFD300"),
	Error:   lipgloss.Color("#E94090"),
	Info:    lipgloss.Color("#00CED1"),
}

// Light keeps the hues of Dark on a paper background.
var Light = Theme{
	Name:    "light",
	Base:    lipgloss.Color("#FAFAF7"),
	Surface: lipgloss.Color("#EEEDF2"),
	Border:  lipgloss.Color("#C9C7D1"),
	Muted:   lipgloss.Color("#6E6C7A"),
	Text:    lipgloss.Color("#201F26"),
	Primary: lipgloss.Color("#5036E0"),
	Accent:  lipgloss.Color("#C63BC6"),
	Success: lipgloss.Color("#0E9F6E"),
	Warning: lipgloss.Color("#B7791F"),
	Error:   lipgloss.Color("#C81E66"),
	Info:    lipgloss.Color("#0B8A8C"),
}

// ThemeFor returns the palette for a stored theme name.
func ThemeFor(name string) Theme {
	if name == Dark.Name {
		return Dark
	}
	return Light
}

func (t Theme) style() lipgloss.Style       { return lipgloss.NewStyle().Foreground(t.Text) }
func (t Theme) muted() lipgloss.Style       { return lipgloss.NewStyle().Foreground(t.Muted) }
func (t Theme) title() lipgloss.Style       { return lipgloss.NewStyle().Foreground(t.Info).Bold(true) }
func (t Theme) errorStyle() lipgloss.Style  { return lipgloss.NewStyle().Foreground(t.Error) }
func (t Theme) noticeStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Warning) }

// sign colors a number by its sign.
func (t Theme) sign(v float64, text string) string {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(t.Success).Render(text)
	case v < 0:
		return lipgloss.NewStyle().Foreground(t.Error).Render(text)
	}
	return t.style().Render(text)
}

func (t Theme) signPtr(v *float64, text string) string {
	if v == nil {
		return t.muted().Render(text)
	}
	return t.sign(*v, text)
}

// badge renders the subscription tier pill.
func (t Theme) badge(tier string) string {
	b := tiers.BadgeFor(tier)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(b.Color)).
		Padding(0, 1).
		Render(b.Label)
}

// GradientText applies a horizontal color gradient across each line of text.
func GradientText(text string, from, to lipgloss.Color) string {
	fr, fg, fb := hexToRGB(string(from))
	tr, tg, tb := hexToRGB(string(to))

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		runes := []rune(line)
		n := len(runes)
		if n == 0 {
			result = append(result, "")
			continue
		}

		var sb strings.Builder
		for i, r := range runes {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			cr := uint8(math.Round(float64(fr) + t*float64(int(tr)-int(fr))))
			cg := uint8(math.Round(float64(fg) + t*float64(int(tg)-int(fg))))
			cb := uint8(math.Round(float64(fb) + t*float64(int(tb)-int(fb))))

			color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", cr, cg, cb))
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
		}
		result = append(result, sb.String())
	}
	return strings.Join(result, "\n")
}

func hexToRGB(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}
