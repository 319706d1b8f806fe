// Package web holds the embedded single-page chat UI. The transcript itself
// lives in the browser (history state), never on the server.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/index.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// IndexTemplate parses the chat page template. Called once at startup.
func IndexTemplate() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/index.html")
}

// Static serves the embedded script and stylesheet under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded static assets missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
