package templates

import (
	"embed"
	"html/template"
)

//go:embed views/*.html
var viewFS embed.FS

// Load parses the embedded views into a template set for gin's renderer.
func Load() (*template.Template, error) {
	return template.ParseFS(viewFS, "views/*.html")
}
