package controller

import (
	"io"
	"log/slog"
	"net/http"

	"grove/internal/web/renderer"
)

const maxPreviewBytes = 1 << 20

// Misc provides miscellaneous handlers
type Misc struct {
	Renderer renderer.Renderer
	Log      *slog.Logger
}

// Register registers the misc routes
func (m *Misc) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /_preview", m.preview)
}

// preview renders the request body the same way a saved page would be shown.
func (m *Misc) preview(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPreviewBytes))
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusRequestEntityTooLarge)
		return
	}

	html, err := m.Renderer.Render(string(body))
	if err != nil {
		m.Log.Error("rendering preview", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}
