package main

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/carbocation/tshcqc/checks"
	"github.com/gorilla/mux"
)

const (
	BaseFilename = "_base.html"
)

//go:embed all:templates
var embeddedTemplates embed.FS

// handler provides global values that must be
// safe for concurrent use from multiple goroutines
// to each handler method.
type handler struct {
	*Global

	router *mux.Router

	assetsOnce sync.Once
	assets     string

	// Mutex protected values
	mu       sync.RWMutex
	template map[string]*template.Template
}

func (h *handler) Assets() string {
	h.assetsOnce.Do(func() {
		h.Global.log.Println("Initializing Assets")
		h.assets = fmt.Sprintf("/%s", RandHeteroglyphs(10))
	})

	return h.assets
}

func (h *handler) base() (*template.Template, error) {
	return template.New(BaseFilename).Funcs(template.FuncMap{
		"add":         func(a, b int) int { return a + b },
		"resultClass": func(s checks.Status) string { return strings.ToLower(string(s)) },
	}).ParseFS(embeddedTemplates, "templates/_*.html")
}

// Template returns the named page parsed on top of a clone of the base
// layout, building and caching it on first use.
func (h *handler) Template(templateFilename string) (*template.Template, error) {
	h.mu.RLock()
	tpl, ok := h.template[templateFilename]
	h.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if tpl, ok := h.template[templateFilename]; ok {
		return tpl, nil
	}

	if h.template == nil {
		h.Global.log.Println("Initializing HTML templates")
		base, err := h.base()
		if err != nil {
			return nil, fmt.Errorf("handler.go:Template: %w", err)
		}
		h.template = map[string]*template.Template{BaseFilename: base}
	}

	// Generate a clone of the base template so you don't contaminate it with the
	// derivative template's `define` statements.
	h.Global.log.Println("Initializing HTML template for", templateFilename)
	clone, err := h.template[BaseFilename].Clone()
	if err != nil {
		return nil, err
	}
	tpl, err = clone.ParseFS(embeddedTemplates, "templates/"+templateFilename)
	if err != nil {
		return nil, fmt.Errorf("handler.go:Template: %w", err)
	}
	h.template[templateFilename] = tpl

	return tpl, nil
}
