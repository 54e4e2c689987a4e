package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBasicMarkdown(t *testing.T) {
	html, err := New().Render("## Keunggulan\n\n- Tahan cuaca\n- **SNI**")
	require.NoError(t, err)
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "<li>Tahan cuaca</li>")
	assert.Contains(t, html, "<strong>SNI</strong>")
}

func TestRenderStripsScripts(t *testing.T) {
	html, err := New().Render("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script"))
	assert.False(t, strings.Contains(html, "javascript:"))
}

func TestRenderEmpty(t *testing.T) {
	html, err := New().Render("")
	require.NoError(t, err)
	assert.Empty(t, html)
}
