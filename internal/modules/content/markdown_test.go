package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	out, err := HTML("# Plans\n\n- **Alerts**\n\n<script>alert(1)</script>\n")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>Plans</h1>")
	assert.Contains(t, html, "<strong>Alerts</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Plans\n\nBilled monthly.", 40, StyleLight)
	require.NoError(t, err)
	assert.Contains(t, out, "Plans")
	assert.Contains(t, out, "Billed monthly.")

	out, err = Terminal("plain", 5, "unknown")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "plain"))
}
