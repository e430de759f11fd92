package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// StaticFileServer serves the stylesheets and editor script bundled into the
// binary. Mount it under /static/ with the prefix stripped.
func StaticFileServer() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
