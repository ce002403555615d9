package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"blogcms/internal/service"
)

type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// classify maps a service error onto a status code and a client message.
// Anything unrecognised is a 500 whose cause stays in the log.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required."
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password."
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "Permission denied."
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "The resource was modified concurrently, please retry."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// writeServiceError is the JSON counterpart of renderError.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := service.AsValidation(err); ok {
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		resp := ErrorResponse{Errors: verr.Fields}
		if len(fields) > 0 {
			resp.Error = verr.Fields.First(fields[0])
		}
		writeSuccess(w, resp, http.StatusBadRequest)
		return
	}

	status, message := classify(err)
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	WriteError(w, message, status)
}
