package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"&", "&amp;"},
		{"<", "&lt;"},
		{">", "&gt;"},
		{`"`, "&quot;"},
		{"'", "&apos;"},
		{`<script>&"'</script>`, "&lt;script&gt;&amp;&quot;&apos;&lt;/script&gt;"},
		{"&amp;", "&amp;amp;"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeHTML(tt.in))
		})
	}
}

func TestContentViewEscapesOnce(t *testing.T) {
	view := Content(`<script>&"'</script>`)

	require.Equal(t, KindContent, view.Kind)
	assert.Contains(t, view.HTML, "<pre>&lt;script&gt;&amp;&quot;&apos;&lt;/script&gt;</pre>")
	assert.NotContains(t, view.HTML, "&amp;lt;")
	assert.NotContains(t, view.HTML, "&amp;quot;")
	assert.NotContains(t, view.HTML, "<script>")
}

func TestContentViewKeepsText(t *testing.T) {
	text := "SPECS:\n----\n\nFile: a.txt\nhello\n----\n"
	view := Content(text)

	assert.Equal(t, text, view.Text)
	assert.True(t, strings.HasPrefix(view.HTML, "<!DOCTYPE html>"))
	assert.Contains(t, view.HTML, "<pre>"+text+"</pre>")
}

func TestErrorView(t *testing.T) {
	view := Error(`No "specs" folder found in workspace`)

	assert.True(t, view.IsError())
	assert.Contains(t, view.HTML, `<div class="error">No &quot;specs&quot; folder found in workspace</div>`)
	assert.Contains(t, view.HTML, "#ff5555")
}

func TestRenderIsDeterministic(t *testing.T) {
	assert.Equal(t, Content("same").HTML, Content("same").HTML)
	assert.Equal(t, Error("same").HTML, Error("same").HTML)
}
