package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/mmynk/paysplit/internal/form"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages rendered by the admin UI. Each is parsed together with the layout.
const (
	pageForm    = "form.html"
	pagePlugins = "plugins.html"
	pageLogin   = "login.html"
)

// elementData pairs an element with the state it is rendered against.
type elementData struct {
	E  form.Element
	St *form.State
}

var templateFuncs = template.FuncMap{
	"bind": func(e form.Element, st *form.State) elementData {
		return elementData{E: e, St: st}
	},
	"kind":    elementKind,
	"trusted": func(s string) template.HTML { return template.HTML(s) },
	"join":    strings.Join,
	"errorOf": func(st *form.State, name string) string {
		return st.Error(name)
	},
	// valueOf prefers the submitted value so a rejected form keeps its input.
	"valueOf": func(st *form.State, name, def string) string {
		if st.Values.Has(name) {
			return st.Values.Get(name)
		}
		return def
	},
	"checked": func(st *form.State, name string, def bool) bool {
		if len(st.Values) > 0 {
			return st.Values.Has(name)
		}
		return def
	},
}

func elementKind(e form.Element) string {
	switch e.(type) {
	case *form.Markup:
		return "markup"
	case *form.Details:
		return "details"
	case *form.Select:
		return "select"
	case *form.TextField:
		return "text"
	case *form.Checkbox:
		return "checkbox"
	case *form.Button:
		return "button"
	case *form.Actions:
		return "actions"
	case *form.Table:
		return "table"
	}
	return ""
}

func parseTemplates() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}
	for _, page := range []string{pageForm, pagePlugins, pageLogin} {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		pages[page] = tmpl
	}
	return pages, nil
}

func hasDraggable(f *form.Form) bool {
	for _, e := range f.Elements {
		if t, ok := e.(*form.Table); ok && t.Draggable {
			return true
		}
	}
	return false
}
