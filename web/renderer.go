package webui

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/matriculapp/academico/core/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

type renderer struct {
	templates *template.Template
}

func newRenderer() *renderer {
	funcs := template.FuncMap{
		"str": strconv.Itoa,
	}
	return &renderer{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// page is the data every template receives.
type page struct {
	Title  string
	User   *session.User
	Notice string
	Error  string
	Data   interface{}
}
