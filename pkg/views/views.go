// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
)

//go:embed templates/*.html
var files embed.FS

// Page names
const (
	PageIndex      = "index"
	PageLogin      = "login"
	PageRegister   = "register"
	PageEventView  = "eventview"
	PageRooms      = "rooms"
	PageDeleteRoom = "deleteroom"
	PageAddTask    = "add"
	PageDeleteTask = "delete"
	PageNotFound   = "404"
	PageError      = "error"
)

var pages = []string{
	PageIndex, PageLogin, PageRegister, PageEventView, PageRooms,
	PageDeleteRoom, PageAddTask, PageDeleteTask, PageNotFound, PageError,
}

// PageData is the single view model every page renders from
type PageData struct {
	User    *models.User
	Room    *models.Room
	Flashes []string
	CSRF    string

	// form state for re-rendering after a validation error
	Form   url.Values
	Errors map[string]string

	Tasks    []models.Task
	Comments []models.Comment
	Rooms    []models.Room
	Task     *models.Task
	Target   *models.Room

	Heading string
	Action  string
}

// UserID returns the viewer's id, or 0
func (d PageData) UserID() int64 {
	if d.User == nil {
		return 0
	}
	return d.User.ID
}

var funcs = template.FuncMap{
	"canModify": services.CanModify,
}

// Renderer holds one parsed template set per page
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page against the shared layout
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNew is New for package-level wiring where templates are known good
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page into w. Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown view %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
