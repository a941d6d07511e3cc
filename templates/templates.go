// Package templates holds the embedded page set and the gin renderer for it.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed html/*.html
var files embed.FS

// Pages lists every page template; each is parsed together with base.html.
var Pages = []string{
	"index.html",
	"detail.html",
	"category.html",
	"post_form.html",
	"post_delete.html",
	"comment_form.html",
	"comment_delete.html",
	"profile.html",
	"profile_edit.html",
	"registration.html",
	"login.html",
	"about.html",
	"rules.html",
	"403.html",
	"404.html",
	"413.html",
	"500.html",
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// markdown renders post bodies. Raw HTML in the source is omitted.
func markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func linebreaks(s string) template.HTML {
	s = template.HTMLEscapeString(s)

	paragraphs := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n")
	var result []string

	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			p = strings.ReplaceAll(p, "\n", "<br>")
			result = append(result, "<p>"+p+"</p>")
		}
	}

	return template.HTML(strings.Join(result, "\n"))
}

func truncatewords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " …"
}

func datefmt(t time.Time) string {
	return t.UTC().Format("2 January 2006, 15:04")
}

// Funcs is shared by every page.
var Funcs = template.FuncMap{
	"markdown":      markdown,
	"linebreaks":    linebreaks,
	"truncatewords": truncatewords,
	"datefmt":       datefmt,
}

// Renderer implements gin's render.HTMLRender over the embedded pages.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page up front; a broken template fails at startup.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		t, err := template.New("").Funcs(Funcs).ParseFS(files, "html/base.html", "html/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		pages[page] = t
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic("templates: unknown page " + name)
	}
	return render.HTML{Template: t, Name: "base", Data: data}
}
