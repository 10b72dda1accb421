// Package web holds the HTML templates for the recommendation form.
package web

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// IndexTemplate is the name of the single page template
const IndexTemplate = "index.tmpl"

var funcs = template.FuncMap{
	"decimal": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

// Templates parses every embedded template
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}
