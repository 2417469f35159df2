package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// layoutName is the template every page is rendered into.
const layoutName = "layout"

// pageTitles are the <title> texts used when a handler does not set one.
var pageTitles = map[string]string{
	"login":    "Login",
	"register": "Register",
	"index":    "Tasks",
	"update":   "Edit task",
	"delete":   "Delete task",
	"error":    "Error",
}

// NewViews creates the html template engine over the embedded templates and
// parses them.
func NewViews() (*html.Engine, error) {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFunc("date", formatDate)

	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return engine, nil
}

func formatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006, 3:04 p.m.")
}
