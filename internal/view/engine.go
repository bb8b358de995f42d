package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
)

const (
	defaultLayout = "layouts/base.html"
	defaultPages  = "pages/*.html"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoPages          = errors.New("no page templates found")
)

// Engine renders page templates wrapped in a shared layout.
// It satisfies fiber.Views, so handlers render with c.Render(name, data).
// Each page is parsed into its own template set together with the layout;
// sets are swapped as a whole on reload, so renders never see a partial set.
type Engine struct {
	fsys   fs.FS
	layout string
	pages  string
	funcs  template.FuncMap

	mu        sync.RWMutex
	templates map[string]*template.Template
}

// Option customizes an Engine.
type Option func(*Engine)

// WithFuncs adds template functions, overriding sprig and built-in ones of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for k, v := range funcs {
			e.funcs[k] = v
		}
	}
}

// WithLayout changes the layout file, relative to the engine's filesystem.
func WithLayout(name string) Option {
	return func(e *Engine) { e.layout = name }
}

// New creates an Engine reading from fsys. Templates are parsed by Load.
func New(fsys fs.FS, opts ...Option) *Engine {
	funcs := sprig.FuncMap()
	funcs["asset"] = func(p string) string { return p }
	funcs["plain"] = plain

	e := &Engine{
		fsys:   fsys,
		layout: defaultLayout,
		pages:  defaultPages,
		funcs:  funcs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load parses the layout and every page. On error the previous set is kept.
func (e *Engine) Load() error {
	files, err := fs.Glob(e.fsys, e.pages)
	if err != nil {
		return fmt.Errorf("glob pages: %w", err)
	}
	if len(files) == 0 {
		return ErrNoPages
	}

	set := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		t, err := template.New(name).Funcs(e.funcs).ParseFS(e.fsys, e.layout, file)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		set[name] = t
	}

	e.mu.Lock()
	e.templates = set
	e.mu.Unlock()
	return nil
}

// Render executes the named page inside the layout. Fiber passes layout names
// as the variadic argument; the engine always uses its own layout.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	e.mu.RLock()
	t, ok := e.templates[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t.ExecuteTemplate(w, path.Base(e.layout), binding)
}

// plain escapes only the characters that can break markup (&, <, >, quotes),
// so values like "Python 3.8+" are emitted verbatim instead of "3.8&#43;".
func plain(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

// Names lists the loaded page names in sorted order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for n := range e.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
