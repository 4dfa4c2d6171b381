// Package embedded provides the assets compiled into the binary:
// - templates/ - html/template pages for the web front-end
// - static/    - stylesheet and the small page script (charts, suggestions, live prices)
// - content/   - pricing copy (markdown) and the ticker directory for search suggestions
package embedded

import (
	"embed"
	"io/fs"
)

//go:embed templates static content
var Files embed.FS

// Static returns the static asset tree, rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(Files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PricingMarkdown returns the marketing copy of the pricing page.
func PricingMarkdown() string {
	data, err := Files.ReadFile("content/pricing.md")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// TickerDirectory returns the "ticker,name" CSV used by search suggestions.
func TickerDirectory() []byte {
	data, err := Files.ReadFile("content/tickers.csv")
	if err != nil {
		panic(err)
	}
	return data
}
