package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/service"
)

//go:embed templates
var templateFS embed.FS

// PageData is handed to every page template.
type PageData struct {
	Title   string
	User    *identity.Identity
	Flashes []string
	Path    string
	Data    interface{}
}

type Renderer struct {
	pages map[string]*template.Template
}

type fieldView struct {
	forms.Field
	Value   string
	Errors  []string
	Checked bool
}

var namedForms = map[string]forms.Form{
	"comment":      forms.Comment,
	"newsletter":   forms.Newsletter,
	"post":         forms.Post,
	"category":     forms.Category,
	"registration": forms.Registration,
	"login":        forms.Login,
	"profile":      forms.Profile,
}

func templateFuncs(imageURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"imageURL": func(objectName *string) string {
			if objectName == nil || *objectName == "" {
				return ""
			}
			return imageURL(*objectName)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"since": func(t time.Time) string { return humanize.Time(t) },
		"date": func(t interface{}) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("January 2, 2006")
			case *time.Time:
				if v != nil {
					return v.Format("January 2, 2006")
				}
			}
			return ""
		},
		"comma":         func(n int) string { return humanize.Comma(int64(n)) },
		"emoji":         models.ReactionEmoji,
		"reactionTypes": func() []string { return models.ReactionTypes },
		"reactionCount": func(counts []models.ReactionCount, reactionType string) int {
			for _, c := range counts {
				if c.ReactionType == reactionType {
					return c.Count
				}
			}
			return 0
		},
		"truncateWords": func(s string, n int) string {
			words := strings.Fields(s)
			if len(words) <= n {
				return s
			}
			return strings.Join(words[:n], " ") + " …"
		},
		"pluralize": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
		"pageURL": func(base url.Values, page int) string {
			q := url.Values{}
			for k, v := range base {
				q[k] = v
			}
			q.Set("page", fmt.Sprint(page))
			return "?" + q.Encode()
		},
		"pager": func(page service.Page, query url.Values) map[string]interface{} {
			return map[string]interface{}{"Page": page, "Query": query}
		},
		"field": func(formName, name string, values map[string]string, errs forms.Errors) (fieldView, error) {
			form, ok := namedForms[formName]
			if !ok {
				return fieldView{}, fmt.Errorf("unknown form %q", formName)
			}
			f, ok := form.Field(name)
			if !ok {
				return fieldView{}, fmt.Errorf("form %s has no field %q", formName, name)
			}
			value := values[name]
			return fieldView{Field: f, Value: value, Errors: errs[name], Checked: value != "" && value != "false"}, nil
		},
		"nonFieldErrors": func(errs forms.Errors) []string { return errs[forms.NonFieldErrors] },
		"commentTime":    func(t time.Time) string { return t.Format(service.CommentTimeLayout) },
	}
}

// NewRenderer parses every page together with the layout and partials.
func NewRenderer(imageURL func(string) string) (*Renderer, error) {
	funcs := templateFuncs(imageURL)
	pages := map[string]*template.Template{}

	err := fs.WalkDir(templateFS, "templates/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}

		tmpl, err := template.New("base.html").Funcs(funcs).
			ParseFS(templateFS, "templates/base.html", "templates/partials/*.html", p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}

		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/pages/"), ".html")
		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{pages: pages}, nil
}

func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data PageData) error {
	tmpl, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("no page template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	page := PageData{
		Title:   title,
		User:    identity.From(r.Context()),
		Flashes: h.takeFlashes(w, r),
		Path:    r.URL.Path,
		Data:    data,
	}

	if err := h.pages.Render(w, status, name, page); err != nil {
		h.Log.WithError(err).WithField("page", name).Error("render page")
		http.Error(w, "Internal server error.", http.StatusInternalServerError)
	}
}

// renderError turns a service error into a page: login redirect, 404, 403
// or 500.
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrUnauthenticated) {
		redirectToLogin(w, r)
		return
	}

	status, message := classify(err)
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("page failed")
	}
	h.DenyPage(w, r, status, message)
}

// DenyPage renders a refused page request. Anonymous users go to the login
// page instead.
func (h *Handlers) DenyPage(w http.ResponseWriter, r *http.Request, status int, reason string) {
	if status == http.StatusUnauthorized {
		redirectToLogin(w, r)
		return
	}
	h.render(w, r, status, "error", http.StatusText(status), map[string]interface{}{
		"Status":  status,
		"Message": reason,
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/accounts/login/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}
