package view

import (
	"embed"
	"html/template"
	"io"

	"dementiaui/internal/dto"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	// The backend's base64 is trusted as an image source without decoding.
	"previewURL": func(src string) template.URL { return template.URL(src) },
}).ParseFS(files, "templates/*.html"))

// PageData is the state of the dashboard for one request. At most one of
// Error and Report is set; neither is set on an idle page.
type PageData struct {
	Error       string
	Report      *dto.Report
	MaxUploadMB int64
	AuthEnabled bool
}

// LoginData is the state of the login page.
type LoginData struct {
	Error string
}

func RenderIndex(w io.Writer, data *PageData) error {
	return pages.ExecuteTemplate(w, "index.html", data)
}

func RenderLogin(w io.Writer, data *LoginData) error {
	return pages.ExecuteTemplate(w, "login.html", data)
}
