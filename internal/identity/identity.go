// Package identity carries the authenticated requester through a request
// context.
package identity

import "context"

type Identity struct {
	UserID      string
	Username    string
	IsStaff     bool
	IsSuperuser bool
}

type contextKey struct{}

func With(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the requester, or nil for an anonymous request.
func From(ctx context.Context) *Identity {
	id, _ := ctx.Value(contextKey{}).(*Identity)
	return id
}

// UserID is empty for anonymous requests.
func UserID(ctx context.Context) string {
	if id := From(ctx); id != nil {
		return id.UserID
	}
	return ""
}
