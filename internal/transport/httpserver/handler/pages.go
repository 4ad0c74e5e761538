package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"membership-admin/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	index   *template.Template
	confirm *template.Template
}

type indexPage struct {
	View      ui.View
	Values    map[string]string
	CSRFField template.HTML
}

type confirmPage struct {
	ID        string
	Name      string
	Prompt    string
	CSRFField template.HTML
}

var pageFuncs = template.FuncMap{
	"lower": strings.ToLower,
}

func mustParsePages() *pages {
	parse := func(name string) *template.Template {
		return template.Must(template.New("layout.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return &pages{
		index:   parse("index.html"),
		confirm: parse("confirm.html"),
	}
}

func (h *Handlers) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.log.InternalError("http: render failed", err, "template", tmpl.Name())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func formValues(view ui.View) map[string]string {
	values := make(map[string]string, len(view.Values))
	for field, value := range view.Values {
		values[string(field)] = value
	}
	return values
}

func csrfField(r *http.Request) template.HTML {
	return csrf.TemplateField(r)
}
