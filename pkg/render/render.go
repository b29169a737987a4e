// Package render turns aggregation results into the HTML documents shown by a
// preview target.
package render

import (
	"strings"
	"text/template"
)

// Kind tells a content view from an error view.
type Kind string

const (
	KindContent Kind = "content"
	KindError   Kind = "error"
)

// View is one full replacement of what a preview target displays.
type View struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	HTML string `json:"html"`
}

// IsError reports whether this is an error view.
func (v View) IsError() bool { return v.Kind == KindError }

var funcs = template.FuncMap{"escape": EscapeHTML}

var contentTemplate = template.Must(template.New("content").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            padding: 20px;
            margin: 0;
        }
        pre {
            white-space: pre-wrap;
            word-wrap: break-word;
            margin: 0;
        }
    </style>
</head>
<body>
    <pre>{{escape .}}</pre>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { padding: 20px; margin: 0; }
        .error { color: #ff5555; }
    </style>
</head>
<body>
    <div class="error">{{escape .}}</div>
</body>
</html>
`))

// Content renders the aggregated text as a content view.
func Content(text string) View {
	return View{Kind: KindContent, Text: text, HTML: execute(contentTemplate, text)}
}

// Error renders a user-visible error message as an error view.
func Error(message string) View {
	return View{Kind: KindError, Text: message, HTML: execute(errorTemplate, message)}
}

func execute(t *template.Template, data string) string {
	var b strings.Builder
	// Both templates only print a string; execution cannot fail.
	_ = t.Execute(&b, data)
	return b.String()
}

// EscapeHTML replaces &, <, >, " and ' with named character references.
// The replacements run in that order, so & is handled before any reference
// is introduced and nothing is escaped twice.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
