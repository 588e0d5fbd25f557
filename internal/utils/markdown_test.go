package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("# Rules\n\nAlways run `go test`.")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<code>go test</code>")
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html := RenderMarkdown("hello <script>alert(1)</script> world")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "hello")
}
