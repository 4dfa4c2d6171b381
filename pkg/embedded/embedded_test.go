package embedded

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsPresent(t *testing.T) {
	for _, name := range []string{"templates/layout.html", "templates/watchlist.html", "static/app.css", "static/app.js"} {
		_, err := fs.Stat(Files, name)
		assert.NoError(t, err, name)
	}

	_, err := fs.Stat(Static(), "app.js")
	require.NoError(t, err)
}

func TestContent(t *testing.T) {
	assert.True(t, strings.HasPrefix(PricingMarkdown(), "# "))
	assert.True(t, strings.HasPrefix(string(TickerDirectory()), "ticker,name\n"))
}
