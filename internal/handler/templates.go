package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/inbox"
	"github.com/portfolio/backend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// dateLayout matches how the portfolio frontend prints dates.
const dateLayout = "January 2, 2006 at 03:04 PM"

var templateFuncs = template.FuncMap{
	"formatDate": formatDate,
	"rfc3339":    func(t time.Time) string { return t.Format(time.RFC3339) },
	"replyURL":   replyURL,
	"mailtoURL":  mailtoURL,
}

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// mailtoURL links to addr. The address comes from a public form, so it is
// escaped to keep '?' and '#' from starting header fields of their own.
func mailtoURL(addr string) string {
	u := url.URL{Scheme: "mailto", Opaque: url.PathEscape(addr)}
	return u.String()
}

// replyURL builds a mailto link with a prefilled subject and greeting.
func replyURL(m model.Message) string {
	q := url.Values{}
	q.Set("subject", "Re: Your message")
	q.Set("body", fmt.Sprintf("Hi %s,\r\n\r\n", m.Name))
	u := url.URL{
		Scheme: "mailto",
		Opaque: url.PathEscape(m.Email),
		// mail clients read + literally
		RawQuery: strings.ReplaceAll(q.Encode(), "+", "%20"),
	}
	return u.String()
}

type loginData struct {
	Title      string
	Error      string
	Email      string
	Submitting bool
	CSRFToken  string
}

type dashboardData struct {
	Title     string
	View      inbox.View
	CSRFToken string
}

// pages holds the parsed admin templates.
type pages struct {
	login     *template.Template
	dashboard *template.Template
}

func parsePages() (*pages, error) {
	parse := func(name string) (*template.Template, error) {
		return template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
	}
	login, err := parse("login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	dashboard, err := parse("dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &pages{login: login, dashboard: dashboard}, nil
}

func (p *pages) renderLogin(w io.Writer, data loginData) error {
	data.Title = "Login"
	return p.login.ExecuteTemplate(w, "base", data)
}

func (p *pages) renderDashboard(w io.Writer, data dashboardData) error {
	data.Title = "Dashboard"
	return p.dashboard.ExecuteTemplate(w, "base", data)
}
