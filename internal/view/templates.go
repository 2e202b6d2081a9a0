package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ems-portal/ems-portal/internal/layout"
	"github.com/ems-portal/ems-portal/internal/shared"
	"github.com/ems-portal/ems-portal/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// Account is the signed-in user as shown in the top bar.
type Account struct {
	UserID    string
	RoleLabel string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Account     *Account
	Sidebar     *layout.SidebarView
	Data        any
}

var funcs = template.FuncMap{
	"initials": initials,
	// static resolves an asset path under web.StaticPrefix.
	"static": func(name string) string {
		return path.Join(web.StaticPrefix, name)
	},
}

// NewEngine parses the embedded layouts, partials and pages.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(funcs).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Render executes the named template into a buffer and writes it with
// status. Nothing is written when execution fails.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("view: template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// initials returns the upper-cased first letter of s, or "?" when s is blank.
func initials(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}
