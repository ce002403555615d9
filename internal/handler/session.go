package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName    = "blogcms_session"
	SessionUserKey = "user_id"
)

func (h *Handlers) session(r *http.Request) *sessions.Session {
	session, err := h.Sessions.Get(r, SessionName)
	if err != nil {
		h.Log.WithError(err).Debug("starting a fresh session")
	}
	return session
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, userID string) error {
	session := h.session(r)
	session.Values[SessionUserKey] = userID
	return session.Save(r, w)
}

// endSession forgets the user but keeps the cookie so a flash can follow.
func (h *Handlers) endSession(w http.ResponseWriter, r *http.Request) error {
	session := h.session(r)
	delete(session.Values, SessionUserKey)
	return session.Save(r, w)
}

func (h *Handlers) flash(w http.ResponseWriter, r *http.Request, message string) {
	session := h.session(r)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		h.Log.WithError(err).Warn("save flash")
	}
}

func (h *Handlers) takeFlashes(w http.ResponseWriter, r *http.Request) []string {
	session := h.session(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		h.Log.WithError(err).Warn("clear flashes")
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
