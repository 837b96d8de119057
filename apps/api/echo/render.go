package echoapi

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/trezcool/organizer/core/organizer"
	appfs "github.com/trezcool/organizer/fs"
)

const (
	webTemplatesDir = "templates/web"
	layoutTemplate  = "layout"
)

// pages are rendered inside the layout, each with every `_*.gohtml` partial available.
var pages = []string{
	"welcome", "todo", "login", "month", "classes", "class_new", "class", "files", "user", "profile", "error",
}

var funcMap = template.FuncMap{
	"markdown": func(src string) template.HTML {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(src), &buf); err != nil {
			return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
		}
		return template.HTML(buf.String())
	},
	"bytes": func(n int64) string {
		if n < 0 {
			n = 0
		}
		return humanize.Bytes(uint64(n))
	},
	"ago":      humanize.Time,
	"date":     func(t time.Time) string { return t.Format("Mon Jan 2, 2006") },
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	"color":    organizer.GetColor,
	"dict": func(values ...interface{}) map[string]interface{} {
		d := make(map[string]interface{}, len(values)/2)
		for i := 0; i+1 < len(values); i += 2 {
			d[fmt.Sprint(values[i])] = values[i+1]
		}
		return d
	},
}

func appfsWeb() fs.FS {
	sub, err := fs.Sub(appfs.FS, webTemplatesDir)
	if err != nil {
		panic(err)
	}
	return sub
}

type templateRenderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil) // interface compliance check

func newTemplateRenderer(fsys fs.FS) *templateRenderer {
	partials, err := fs.Glob(fsys, "_*.gohtml")
	if err != nil {
		panic(err)
	}

	r := &templateRenderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		patterns := append([]string{layoutTemplate + ".gohtml", page + ".gohtml"}, partials...)
		r.pages[page] = template.Must(template.New(page).Funcs(funcMap).ParseFS(fsys, patterns...))
	}
	return r
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, layoutTemplate, data)
}
