package httpx

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed pages/*.html
var pageFS embed.FS

// PageRenderer renders the server-side HTML pages (login and the dashboard
// shell). Rendering goes through a buffer so template failures never leak a
// half-written page to the client.
type PageRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// NewPageRenderer parses the embedded page templates.
func NewPageRenderer(logger *slog.Logger) (*PageRenderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t, err := template.ParseFS(pageFS, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &PageRenderer{t: t, logger: logger.With("component", "pages")}, nil
}

// Render writes one named template with the given data.
func (p *PageRenderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.t.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("render page failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// PageHandlers serves the HTML entry points of the dashboard.
type PageHandlers struct {
	Renderer *PageRenderer
}

type pageData struct {
	Title    string
	Section  string
	UserName string
}

// Login serves the sign-in page.
func (h *PageHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "login.html", pageData{Title: "Sign in"})
}

// App serves the dashboard shell for every authenticated section. The
// client-side router takes over from the section marker.
func (h *PageHandlers) App(section, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{Title: title, Section: section}
		if sess, ok := GetUserSessionFromContext(r.Context()); ok {
			data.UserName = sess.Name
		}
		h.Renderer.Render(w, http.StatusOK, "app.html", data)
	}
}
