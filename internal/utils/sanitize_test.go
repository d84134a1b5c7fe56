package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTMLStripsScripts(t *testing.T) {
	out := SanitizeHTML(`<p>hello</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hello</p>")
	assert.NotContains(t, out, "script")
}

func TestSanitizeHTMLKeepsImages(t *testing.T) {
	out := SanitizeHTML(`<img src="https://example.com/a.png">`)
	assert.Contains(t, out, "img")
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("some **bold** text")
	assert.Contains(t, out, "<strong>bold</strong>")

	// Markdown inputs cannot smuggle raw HTML through
	out = RenderMarkdown("hi <script>alert(1)</script>")
	assert.NotContains(t, out, "<script>")
}

func TestStringToUint(t *testing.T) {
	assert.Equal(t, uint(42), StringToUint("42"))
	assert.Equal(t, uint(0), StringToUint("abc"))
	assert.Equal(t, uint(0), StringToUint("-1"))
}
