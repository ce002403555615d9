package middleware

import (
	"net/http"

	handlers "blogcms/internal/handler"
	"blogcms/internal/identity"
)

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Status  int
	Reason  string
}

type Policy func(id *identity.Identity) Decision

// DenyFunc writes the response for a refused request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, d Decision)

var allow = Decision{Allowed: true, Status: http.StatusOK}

func RequireLogin(id *identity.Identity) Decision {
	if id == nil {
		return Decision{Status: http.StatusUnauthorized, Reason: "Authentication required."}
	}
	return allow
}

func RequireStaff(id *identity.Identity) Decision {
	if d := RequireLogin(id); !d.Allowed {
		return d
	}
	if !id.IsStaff {
		return Decision{Status: http.StatusForbidden, Reason: "Staff access required."}
	}
	return allow
}

func RequireSuperuser(id *identity.Identity) Decision {
	if d := RequireLogin(id); !d.Allowed {
		return d
	}
	if !id.IsSuperuser {
		return Decision{Status: http.StatusForbidden, Reason: "Superuser access required."}
	}
	return allow
}

// Guard evaluates policy before the handler runs.
func Guard(policy Policy, deny DenyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := policy(identity.From(r.Context())); !d.Allowed {
				deny(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DenyJSON answers API callers with the JSON error envelope.
func DenyJSON(w http.ResponseWriter, _ *http.Request, d Decision) {
	handlers.WriteError(w, d.Reason, d.Status)
}
