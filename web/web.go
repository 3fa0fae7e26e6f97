// Package web embeds the static map page served at the site root.
package web

import (
	"embed"
	"net/http"
)

//go:embed index.html app.js style.css
var content embed.FS

// Handler serves the embedded page assets.
func Handler() http.Handler {
	return http.FileServer(http.FS(content))
}
