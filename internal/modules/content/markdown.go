// Package content renders the embedded marketing copy for both front-ends.
package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Terminal styles
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders markdown for the web front-end. Raw HTML in the source is not passed through.
func HTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Terminal renders markdown with ANSI styling, wrapped at width.
func Terminal(source string, width int, style string) (string, error) {
	if style != StyleLight {
		style = StyleDark
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := r.Render(source)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
