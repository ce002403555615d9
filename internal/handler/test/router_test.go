package test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogcms/cmd/app"
	"blogcms/internal/identity"
	"blogcms/internal/models"
)

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouter_Guards(t *testing.T) {
	h, m := createTestHandler(t, nil)
	m.auth.On("IdentityFromToken", "reader-token").Return(reader, nil)
	m.auth.On("IdentityFromToken", "staff-token").Return(staff, nil)
	m.auth.On("IdentityFromToken", "forged").Return(nil, errors.New("signature is invalid"))
	m.auth.On("IdentityForUser", mock.Anything, reader.UserID).Return(reader, nil)
	m.auth.On("IdentityForUser", mock.Anything, staff.UserID).Return(staff, nil)
	router := app.NewRouter(h)

	tests := []struct {
		name         string
		method       string
		target       string
		token        string
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{"anonymous dashboard", http.MethodGet, "/admin/dashboard/", "", http.StatusFound, "/accounts/login/?next=%2Fadmin%2Fdashboard%2F", ""},
		{"reader dashboard", http.MethodGet, "/admin/dashboard/", "reader-token", http.StatusForbidden, "", "Staff access required."},
		{"staff deletes user", http.MethodPost, "/admin/users/" + reader.UserID + "/delete/", "staff-token", http.StatusForbidden, "", "Superuser access required."},
		{"anonymous profile", http.MethodGet, "/accounts/profile/", "", http.StatusFound, "/accounts/login/?next=%2Faccounts%2Fprofile%2F", ""},
		{"anonymous reaction", http.MethodPost, "/api/reaction", "", http.StatusUnauthorized, "", `"error":"Authentication required."`},
		{"anonymous comment", http.MethodPost, "/api/comment", "", http.StatusUnauthorized, "", `"error":"Authentication required."`},
		{"forged token", http.MethodGet, "/", "forged", http.StatusUnauthorized, "", "Invalid token."},
		{"wrong method", http.MethodDelete, "/health", "", http.StatusMethodNotAllowed, "", ""},
		{"unknown page", http.MethodGet, "/nope/", "", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.token != "" {
				bearer(req, tt.token)
			}

			rr := serve(router, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}

	m.dashboard.AssertNotCalled(t, "Dashboard", mock.Anything)
	m.user.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_SessionLogin(t *testing.T) {
	h, m := createTestHandler(t, nil)
	router := app.NewRouter(h)

	m.auth.On("Authenticate", mock.Anything, "reader", "pw").Return(&models.User{UserID: reader.UserID, Username: "reader"}, nil)
	m.auth.On("IdentityForUser", mock.Anything, reader.UserID).Return(reader, nil)
	m.user.On("Profile", mock.Anything, mock.MatchedBy(func(id *identity.Identity) bool {
		return id != nil && id.UserID == reader.UserID
	})).Return(readerProfile(), nil)

	login := serve(router, formRequest(http.MethodPost, "/accounts/login/", url.Values{
		"username": {"reader"},
		"password": {"pw"},
		"next":     {"/accounts/profile/"},
	}))
	require.Equal(t, http.StatusFound, login.Code)
	require.Equal(t, "/accounts/profile/", login.Header().Get("Location"))

	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/accounts/profile/", nil)
	req.AddCookie(cookie)
	profile := serve(router, req)

	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), "reader@example.com")
	assert.Contains(t, profile.Body.String(), "Welcome back, reader!")
}

func TestRouter_Ops(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h, _ := createTestHandler(t, nil)

		rr := serve(app.NewRouter(h), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		h, _ := createTestHandler(t, errors.New("connection refused"))

		rr := serve(app.NewRouter(h), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		h, _ := createTestHandler(t, nil)
		router := app.NewRouter(h)

		serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `blog_http_requests_total{route="/health",status="2xx"} 1`)
	})

	t.Run("preflight", func(t *testing.T) {
		h, _ := createTestHandler(t, nil)

		rr := serve(app.NewRouter(h), httptest.NewRequest(http.MethodOptions, "/api/comment", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
