package handlers

import (
	"net/http"
	"strconv"

	"blogcms/internal/forms"
	"blogcms/internal/identity"
	"blogcms/internal/service"
)

type profileFormView struct {
	Avatar *string
	Values map[string]string
	Errors forms.Errors
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.UserService.Profile(r.Context(), identity.From(r.Context()))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "profile", "Profile", profile)
}

func (h *Handlers) ProfileEditPage(w http.ResponseWriter, r *http.Request) {
	profile, err := h.UserService.Profile(r.Context(), identity.From(r.Context()))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "profile_edit", "Edit profile", profileFormView{
		Avatar: profile.Profile.Avatar,
		Values: profileValues(profile),
	})
}

func (h *Handlers) ProfileEdit(w http.ResponseWriter, r *http.Request) {
	actor := identity.From(r.Context())

	values, avatar, file, err := h.multipartValues(w, r, "avatar")
	if file != nil {
		defer file.Close()
	}
	if err == nil {
		_, err = h.UserService.UpdateProfile(r.Context(), actor, values, avatar)
	}

	if err != nil {
		verr, ok := service.AsValidation(err)
		if !ok {
			h.renderError(w, r, err)
			return
		}
		profile, perr := h.UserService.Profile(r.Context(), actor)
		if perr != nil {
			h.renderError(w, r, perr)
			return
		}
		if values == nil {
			values = profileValues(profile)
		}
		h.render(w, r, http.StatusBadRequest, "profile_edit", "Edit profile", profileFormView{
			Avatar: profile.Profile.Avatar,
			Values: values,
			Errors: verr.Fields,
		})
		return
	}

	h.flash(w, r, "Your profile has been updated.")
	http.Redirect(w, r, "/accounts/profile/", http.StatusFound)
}

func profileValues(p *service.Profile) map[string]string {
	return map[string]string{
		"bio":        p.Profile.Bio,
		"newsletter": strconv.FormatBool(p.Profile.Newsletter),
	}
}
