// Package view renders the embedded HTML templates with shared helpers.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/invoice-dashboard/i18n"
	"github.com/shopspring/decimal"
)

//go:embed templates
var embedded embed.FS

var (
	templates = mustSub(embedded, "templates")

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	now = time.Now
)

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := DefaultLang
	if r != nil {
		lang = i18n.LangFromContext(r.Context())
	}
	return template.FuncMap{
		"t":              func(code string) string { return i18n.T(lang, code) },
		"lang":           func() string { return lang },
		"formatCurrency": FormatCurrency,
	}
}

// DefaultLang is used when rendering without a request.
const DefaultLang = i18n.DefaultLang

// FormatCurrency renders cents as US dollars, e.g. 123456 -> "$1,234.56".
func FormatCurrency(cents int64) string {
	s := decimal.New(cents, -2).Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if cents < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// AmountInput renders cents as the major-unit value of an amount field.
func AmountInput(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// load parses layout.html, the partials and name once. Request-specific
// funcs are bound on a clone at render time.
func load(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}

	patterns := []string{"layout.html", name}
	if partials, _ := fs.Glob(templates, "partials/*.html"); len(partials) > 0 {
		patterns = append(patterns, partials...)
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(templates, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes template name inside the layout with status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus executes template name inside the layout. Nothing is written
// to w when execution fails.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := load(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = now().Year()
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
