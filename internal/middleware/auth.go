package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	handlers "blogcms/internal/handler"
	"blogcms/internal/identity"
	"blogcms/internal/repository"
	"blogcms/internal/service"
)

// IdentityMiddleware resolves the requester from a Bearer token or, failing
// that, from the cookie session. Anonymous requests pass through untouched.
func IdentityMiddleware(authService service.AuthService, store sessions.Store, log *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					handlers.WriteError(w, "Invalid authorization header.", http.StatusUnauthorized)
					return
				}

				claims, err := authService.IdentityFromToken(parts[1])
				if err != nil {
					handlers.WriteError(w, "Invalid token.", http.StatusUnauthorized)
					return
				}

				// A token outlives its user; flags come from the current row.
				id, err := authService.IdentityForUser(r.Context(), claims.UserID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						handlers.WriteError(w, "Invalid token.", http.StatusUnauthorized)
						return
					}
					log.WithError(err).Error("resolve token user")
					handlers.WriteError(w, "Internal server error.", http.StatusInternalServerError)
					return
				}

				next.ServeHTTP(w, r.WithContext(identity.With(r.Context(), id)))
				return
			}

			session, err := store.Get(r, handlers.SessionName)
			if err != nil {
				// A cookie signed with an old key decodes to a fresh session.
				log.WithError(err).Debug("discarding unreadable session")
			}

			userID, _ := session.Values[handlers.SessionUserKey].(string)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := authService.IdentityForUser(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					log.WithError(err).Error("resolve session user")
					handlers.WriteError(w, "Internal server error.", http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.With(r.Context(), id)))
		})
	}
}
