// Package assets embeds the web page sources and renders the page served at
// the root path.
//
// The page is built from index.html.tpl, style.css and script.js: stylesheet
// and script are minified and inlined, the map container id is filled in and
// the resulting HTML is minified again. cmd/server renders it at startup,
// cmd/minify writes the same output to disk for static hosting.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

var (
	//go:embed index.html.tpl
	indexTemplate string

	//go:embed style.css
	styleCSS string

	//go:embed script.js
	scriptJS string

	//go:embed favicon.svg
	faviconSVG string
)

// PageData is the input of index.html.tpl.
type PageData struct {
	CSS       string
	JS        string
	Container string
}

var page = template.Must(template.New("index.html").Parse(indexTemplate))

// NewMinifier returns a minifier for every asset type of the page.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// Index renders the minified page with the map attached to the element
// with the given id.
func Index(m *minify.M, container string) ([]byte, error) {
	style, err := m.String("text/css", styleCSS)
	if err != nil {
		return nil, fmt.Errorf("minify style.css: %w", err)
	}
	script, err := m.String("text/javascript", scriptJS)
	if err != nil {
		return nil, fmt.Errorf("minify script.js: %w", err)
	}

	var buf bytes.Buffer
	data := PageData{CSS: style, JS: script, Container: container}
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify page: %w", err)
	}

	return out, nil
}

// Favicon returns the minified site icon.
func Favicon(m *minify.M) ([]byte, error) {
	out, err := m.Bytes("image/svg+xml", []byte(faviconSVG))
	if err != nil {
		return nil, fmt.Errorf("minify favicon.svg: %w", err)
	}

	return out, nil
}
