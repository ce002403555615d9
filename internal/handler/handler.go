package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"blogcms/internal/config"
	"blogcms/internal/metrics"
	"blogcms/internal/service"
	"blogcms/internal/storage"
)

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	UserService       service.UserService
	AuthService       service.AuthService
	PostService       service.PostService
	CategoryService   service.CategoryService
	CommentService    service.CommentService
	ReactionService   service.ReactionService
	NewsletterService service.NewsletterService
	DashboardService  service.DashboardService
	Sessions          sessions.Store
	Metrics           *metrics.Metrics
	Health            HealthChecker
	Cfg               *config.Config
	Log               *logrus.Logger
	pages             *Renderer
}

func NewHandlers(services *service.Service, cfg *config.Config, store storage.Storage, sessionStore sessions.Store,
	m *metrics.Metrics, health HealthChecker, log *logrus.Logger) (*Handlers, error) {
	h := &Handlers{
		UserService:       services.User,
		AuthService:       services.Auth,
		PostService:       services.Post,
		CategoryService:   services.Category,
		CommentService:    services.Comment,
		ReactionService:   services.Reaction,
		NewsletterService: services.Newsletter,
		DashboardService:  services.Dashboard,
		Sessions:          sessionStore,
		Metrics:           m,
		Health:            health,
		Cfg:               cfg,
		Log:               log,
	}

	pages, err := NewRenderer(store.ImageURL)
	if err != nil {
		return nil, err
	}
	h.pages = pages

	return h, nil
}

// NewSessionStore builds the signed cookie store behind page logins.
func NewSessionStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.SiteURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
