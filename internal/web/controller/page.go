package controller

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"grove/internal/category"
	"grove/internal/page"
	"grove/internal/slug"
	"grove/internal/web/flash"
	"grove/internal/web/renderer"
	"grove/internal/web/viewmodels"
)

const conflictMessage = "Someone else changed this page after you opened it. Your change was not saved; review the current version and try again."

// Page provides page handlers
type Page struct {
	Service   *page.Service
	Renderer  renderer.Renderer
	Templates map[string]*template.Template
	Flash     *flash.Store
	Log       *slog.Logger
}

// Register registers the page routes
func (p *Page) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.index)
	mux.HandleFunc("GET /view/{name}", p.view)
	mux.HandleFunc("GET /edit/{name}", p.edit)
	mux.HandleFunc("POST /edit/{name}", p.save)
	mux.HandleFunc("POST /add-category/{name}", p.addCategory)
	mux.HandleFunc("POST /remove-category/{name}", p.removeCategory)
	mux.HandleFunc("GET /revisions/{name}", p.revisions)
	mux.HandleFunc("GET /random", p.random)
}

func (p *Page) index(w http.ResponseWriter, r *http.Request) {
	pages, err := p.Service.Pages(r.Context())
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "index.html", viewmodels.PageData{
		Title: "Index",
		Pages: pages,
	})
}

func (p *Page) view(w http.ResponseWriter, r *http.Request) {
	name, ok := p.canonicalName(w, r, "/view/")
	if !ok {
		return
	}

	revision, err := p.Service.Latest(r.Context(), name)
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	// A page that does not exist yet is offered for creation.
	if revision == nil {
		http.Redirect(w, r, "/edit/"+name, http.StatusFound)
		return
	}

	content, err := p.Renderer.Render(revision.Content)
	if err != nil {
		p.serverError(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "view.html", viewmodels.PageData{
		Title:    "Viewing " + name,
		Name:     name,
		Revision: revision,
		BaseID:   revision.ID,
		Content:  template.HTML(content),
	})
}

func (p *Page) edit(w http.ResponseWriter, r *http.Request) {
	name, ok := p.canonicalName(w, r, "/edit/")
	if !ok {
		return
	}

	revision, err := p.Service.Latest(r.Context(), name)
	if err != nil {
		p.serverError(w, r, err)
		return
	}

	data := viewmodels.PageData{
		Name:     name,
		Revision: revision,
		Creating: revision == nil,
	}
	if revision == nil {
		data.Title = "Creating " + name
	} else {
		data.Title = "Editing " + name
		data.BaseID = revision.ID
		data.Source = revision.Content
	}
	p.render(w, r, http.StatusOK, "edit.html", data)
}

func (p *Page) save(w http.ResponseWriter, r *http.Request) {
	name, ok := p.postedName(w, r)
	if !ok {
		return
	}
	content := r.PostFormValue("content")
	baseID := parseBase(r.PostFormValue("base"))

	_, err := p.Service.Save(r.Context(), name, content, baseID)
	if errors.Is(err, page.ErrConflict) {
		p.editConflict(w, r, name, content)
		return
	}
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/view/"+name, http.StatusSeeOther)
}

// editConflict shows the editor again with the rejected text so it is not
// lost, now based on the current revision.
func (p *Page) editConflict(w http.ResponseWriter, r *http.Request, name, content string) {
	revision, err := p.Service.Latest(r.Context(), name)
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	data := viewmodels.PageData{
		Title:    "Editing " + name,
		Name:     name,
		Revision: revision,
		Source:   content,
		Flashes:  []string{conflictMessage},
	}
	if revision != nil {
		data.BaseID = revision.ID
	}
	p.render(w, r, http.StatusConflict, "edit.html", data)
}

func (p *Page) addCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := p.postedName(w, r)
	if !ok {
		return
	}
	err := p.Service.AddCategory(r.Context(), name, r.PostFormValue("newCategory"), parseBase(r.PostFormValue("base")))
	p.afterCategoryChange(w, r, name, err)
}

func (p *Page) removeCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := p.postedName(w, r)
	if !ok {
		return
	}
	err := p.Service.RemoveCategory(r.Context(), name, r.PostFormValue("category"), parseBase(r.PostFormValue("base")))
	p.afterCategoryChange(w, r, name, err)
}

func (p *Page) afterCategoryChange(w http.ResponseWriter, r *http.Request, name string, err error) {
	var verr *category.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		p.sendError(w, r, http.StatusBadRequest, "Invalid Category Name", "The category's name must not be empty.")
		return
	case errors.Is(err, page.ErrPageNotFound):
		p.sendError(w, r, http.StatusNotFound, "Not Found", "The page "+name+" does not exist yet.")
		return
	case errors.Is(err, page.ErrConflict):
		p.Flash.Add(w, r, conflictMessage)
	default:
		p.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/view/"+name, http.StatusSeeOther)
}

func (p *Page) revisions(w http.ResponseWriter, r *http.Request) {
	name, ok := p.canonicalName(w, r, "/revisions/")
	if !ok {
		return
	}

	entries, err := p.Service.History(r.Context(), name)
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	revisions := make([]viewmodels.RevisionViewModel, 0, len(entries))
	for _, e := range entries {
		revisions = append(revisions, viewmodels.NewRevisionViewModel(e))
	}

	p.render(w, r, http.StatusOK, "revisions.html", viewmodels.PageData{
		Title:     "Viewing revisions of " + name,
		Name:      name,
		Revisions: revisions,
	})
}

func (p *Page) random(w http.ResponseWriter, r *http.Request) {
	name, err := p.Service.Random(r.Context())
	if errors.Is(err, page.ErrNoPages) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/view/"+name, http.StatusFound)
}

// canonicalName returns the page name from the URL. A non-canonical name is
// answered with a redirect to its canonical URL and ok=false.
func (p *Page) canonicalName(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	raw := r.PathValue("name")
	name := slug.Normalize(raw)
	if name == "" {
		p.NotFound(w, r)
		return "", false
	}
	if name != raw {
		http.Redirect(w, r, prefix+name, http.StatusMovedPermanently)
		return "", false
	}
	return name, true
}

// postedName parses the form and returns the normalized page name. Writes
// are always stored under the canonical name.
func (p *Page) postedName(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseForm(); err != nil {
		p.sendError(w, r, http.StatusBadRequest, "Bad Request", "Error parsing form")
		return "", false
	}
	name := slug.Normalize(r.PathValue("name"))
	if name == "" {
		p.sendError(w, r, http.StatusBadRequest, "Invalid Page Name", "The page's name must contain a letter or digit.")
		return "", false
	}
	return name, true
}

// parseBase reads the revision ID an edit form was rendered from. A missing
// or malformed value means the client did not say which revision it saw.
func parseBase(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return page.NoBase
	}
	return id
}

func (p *Page) render(w http.ResponseWriter, r *http.Request, status int, name string, data viewmodels.PageData) {
	if p.Flash != nil {
		data.Flashes = append(data.Flashes, p.Flash.Pop(w, r)...)
	}
	tmpl, ok := p.Templates[name]
	if !ok {
		p.Log.Error("missing template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		p.Log.Error("executing template", "template", name, "err", err)
	}
}

func (p *Page) sendError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	p.render(w, r, status, "error.html", viewmodels.PageData{Title: title, Error: message})
}

// NotFound renders the 404 page.
func (p *Page) NotFound(w http.ResponseWriter, r *http.Request) {
	p.sendError(w, r, http.StatusNotFound, "Not Found", "The page "+r.URL.Path+" was not found. Try one of the links at the top or go back.")
}

func (p *Page) serverError(w http.ResponseWriter, r *http.Request, err error) {
	p.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	p.sendError(w, r, http.StatusInternalServerError, "Internal Server Error", "Something went wrong while handling your request.")
}
