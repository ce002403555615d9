package handlers

import (
	"errors"
	"net/http"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/service"
)

type UserResponse struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"isStaff"`
	IsSuperuser bool   `json:"isSuperuser"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// formView backs every page that shows a form.
type formView struct {
	Values map[string]string
	Errors forms.Errors
	Next   string
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Register", formView{})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, err)
		return
	}
	values := flatten(r.PostForm)

	user, err := h.AuthService.Register(r.Context(), values)
	if err != nil {
		if verr, ok := service.AsValidation(err); ok {
			delete(values, "password")
			delete(values, "password_confirm")
			h.render(w, r, http.StatusBadRequest, "register", "Register", formView{Values: values, Errors: verr.Fields})
			return
		}
		h.renderError(w, r, err)
		return
	}

	if err := h.startSession(w, r, user.UserID); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.Log.WithField("username", user.Username).Info("user registered")
	h.flash(w, r, "Registration successful!")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", "Login", formView{Next: r.URL.Query().Get("next")})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, err)
		return
	}
	username := r.PostForm.Get("username")
	next := r.PostForm.Get("next")

	user, err := h.AuthService.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			errs := forms.Errors{}
			errs.Add(forms.NonFieldErrors, "Invalid username or password.")
			h.render(w, r, http.StatusOK, "login", "Login", formView{
				Values: map[string]string{"username": username},
				Errors: errs,
				Next:   next,
			})
			return
		}
		h.renderError(w, r, err)
		return
	}

	if err := h.startSession(w, r, user.UserID); err != nil {
		h.renderError(w, r, err)
		return
	}

	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	h.flash(w, r, "Welcome back, "+name+"!")
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id := identity.From(r.Context()); id != nil {
		if err := h.AuthService.RevokeRefreshToken(r.Context(), id.UserID); err != nil {
			h.Log.WithError(err).Warn("revoke refresh token on logout")
		}
	}

	if err := h.endSession(w, r); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.flash(w, r, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Token issues a JWT pair for API clients.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if errs := forms.Login.Validate(values); len(errs) > 0 {
		h.writeServiceError(w, r, &service.ValidationError{Fields: errs})
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), values["username"], values["password"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserResponse(user),
	}, http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if values["refreshToken"] == "" {
		WriteError(w, "Refresh token is required.", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.RefreshTokens(r.Context(), values["refreshToken"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserResponse(user),
	}, http.StatusOK)
}
