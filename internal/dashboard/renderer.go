package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/vilaca/teamboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Layout selects the template used for a column fragment.
type Layout string

const (
	// LayoutFull shows one card per issue with assignee and, optionally, age.
	LayoutFull Layout = "issues.html"
	// LayoutCondensed shows a compact list.
	LayoutCondensed Layout = "mini_issues.html"
)

const indexTemplate = "index.html"

// IssuesView is the data passed to the column templates.
type IssuesView struct {
	Issues     []domain.Card
	ShowAvatar bool
	ShowAge    bool
}

// IndexView is the data passed to the board page.
type IndexView struct {
	Title          string
	Columns        []Column
	RefreshSeconds int
}

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderIndex(w io.Writer, view IndexView) error
	RenderHealth(w io.Writer) error
	RenderIssues(w io.Writer, layout Layout, view IssuesView) error
}

// HTMLRenderer implements Renderer with the embedded html/template files.
type HTMLRenderer struct {
	templates *template.Template
}

// LoadTemplates parses the embedded templates.
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{templates: tmpl}, nil
}

func (r *HTMLRenderer) RenderIndex(w io.Writer, view IndexView) error {
	return r.templates.ExecuteTemplate(w, indexTemplate, view)
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (r *HTMLRenderer) RenderIssues(w io.Writer, layout Layout, view IssuesView) error {
	return r.templates.ExecuteTemplate(w, string(layout), view)
}
