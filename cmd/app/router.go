package app

import (
	"net/http"

	"github.com/gorilla/mux"

	handlers "blogcms/internal/handler"
	"blogcms/internal/middleware"
)

// NewRouter mounts every page, API and ops endpoint on h.
func NewRouter(h *handlers.Handlers) http.Handler {
	denyPage := func(w http.ResponseWriter, r *http.Request, d middleware.Decision) {
		h.DenyPage(w, r, d.Status, d.Reason)
	}
	login := mux.MiddlewareFunc(middleware.Guard(middleware.RequireLogin, denyPage))
	staff := mux.MiddlewareFunc(middleware.Guard(middleware.RequireStaff, denyPage))
	superuser := mux.MiddlewareFunc(middleware.Guard(middleware.RequireSuperuser, denyPage))

	router := mux.NewRouter().StrictSlash(true)
	router.Use(
		mux.MiddlewareFunc(middleware.LoggingMiddleware(h.Log)),
		mux.MiddlewareFunc(middleware.MetricsMiddleware(h.Metrics)),
		mux.MiddlewareFunc(middleware.IdentityMiddleware(h.AuthService, h.Sessions, h.Log)),
	)

	// ops
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", h.Metrics.Handler()).Methods(http.MethodGet)

	// public pages
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)
	router.HandleFunc("/post/{slug}/", h.PostDetail).Methods(http.MethodGet)
	router.HandleFunc("/category/{slug}/", h.CategoryPosts).Methods(http.MethodGet)
	router.HandleFunc("/search/", h.Search).Methods(http.MethodGet)

	// accounts
	router.HandleFunc("/accounts/register/", h.RegisterPage).Methods(http.MethodGet)
	router.HandleFunc("/accounts/register/", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/accounts/login/", h.LoginPage).Methods(http.MethodGet)
	router.HandleFunc("/accounts/login/", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/accounts/logout/", h.Logout).Methods(http.MethodGet, http.MethodPost)

	profile := router.PathPrefix("/accounts/profile").Subrouter()
	profile.Use(login)
	profile.HandleFunc("/", h.Profile).Methods(http.MethodGet)
	profile.HandleFunc("/edit/", h.ProfileEditPage).Methods(http.MethodGet)
	profile.HandleFunc("/edit/", h.ProfileEdit).Methods(http.MethodPost)

	// json api
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/token", h.Token).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/newsletter", h.SubscribeNewsletter).Methods(http.MethodPost)
	api.HandleFunc("/newsletter/unsubscribe", h.UnsubscribeNewsletter).Methods(http.MethodPost)

	member := middleware.Guard(middleware.RequireLogin, middleware.DenyJSON)
	api.Handle("/reaction", member(http.HandlerFunc(h.AddReaction))).Methods(http.MethodPost)
	api.Handle("/comment", member(http.HandlerFunc(h.AddComment))).Methods(http.MethodPost)

	// staff area
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(staff)
	admin.HandleFunc("/dashboard/", h.AdminDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/posts/", h.AdminPostList).Methods(http.MethodGet)
	admin.HandleFunc("/posts/create/", h.AdminPostCreatePage).Methods(http.MethodGet)
	admin.HandleFunc("/posts/create/", h.AdminPostCreate).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{id}/edit/", h.AdminPostEditPage).Methods(http.MethodGet)
	admin.HandleFunc("/posts/{id}/edit/", h.AdminPostEdit).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{id}/delete/", h.AdminPostDeletePage).Methods(http.MethodGet)
	admin.HandleFunc("/posts/{id}/delete/", h.AdminPostDelete).Methods(http.MethodPost)
	admin.HandleFunc("/categories/", h.AdminCategoryList).Methods(http.MethodGet)
	admin.HandleFunc("/categories/create/", h.AdminCategoryCreate).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id}/delete/", h.AdminCategoryDelete).Methods(http.MethodPost)
	admin.HandleFunc("/comments/approve", h.AdminApproveComments).Methods(http.MethodPost)
	admin.HandleFunc("/comments/disapprove", h.AdminDisapproveComments).Methods(http.MethodPost)

	users := admin.PathPrefix("/users").Subrouter()
	users.Use(superuser)
	users.HandleFunc("/{id}/delete/", h.AdminDeleteUser).Methods(http.MethodPost)

	return middleware.Chain(router,
		middleware.CORSMiddleware,
		middleware.RecoverMiddleware(h.Log),
	)
}
