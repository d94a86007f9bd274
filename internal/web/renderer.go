package web

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// IndexTemplate is the landing page
const IndexTemplate = "index.html"

// Renderer renders the embedded pongo2 templates
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

// NewRenderer loads the embedded templates and compiles the landing page so
// template errors surface at startup
func NewRenderer() (*Renderer, error) {
	templates, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("web: open templates: %w", err)
	}

	r := &Renderer{
		set:       pongo2.NewSet("premier", pongo2.NewFSLoader(templates)),
		templates: make(map[string]*pongo2.Template),
	}
	if _, err := r.template(IndexTemplate); err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes the named template with data into w
func (r *Renderer) Render(w io.Writer, name string, data map[string]any) error {
	tmpl, err := r.template(name)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteWriter(pongo2.Context(data), w); err != nil {
		return fmt.Errorf("web: render %q: %w", name, err)
	}
	return nil
}

// RenderPage renders the landing page
func (r *Renderer) RenderPage(w io.Writer, view PageView) error {
	return r.Render(w, IndexTemplate, map[string]any{"page": view})
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("web: load template %q: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

// StaticHandler serves the embedded static assets
func StaticHandler() http.Handler {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(fmt.Sprintf("web: open static assets: %v", err))
	}
	return http.FileServer(http.FS(static))
}
