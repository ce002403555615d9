package handlers

import (
	"net/http"
	"strings"

	"blogcms/internal/identity"
	"blogcms/internal/models"
	"blogcms/internal/service"
)

type ReactionResponse struct {
	Success      bool                   `json:"success"`
	Reactions    []models.ReactionCount `json:"reactions"`
	UserReaction string                 `json:"user_reaction"`
}

type CommentPayload struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type CommentResponse struct {
	Success bool           `json:"success"`
	Comment CommentPayload `json:"comment"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handlers) AddReaction(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	result, err := h.ReactionService.React(r.Context(), identity.From(r.Context()), values["post_id"], values["reaction_type"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.Reactions.WithLabelValues(result.UserReaction).Inc()

	reactions := result.Reactions
	if reactions == nil {
		reactions = []models.ReactionCount{}
	}
	writeSuccess(w, ReactionResponse{Success: true, Reactions: reactions, UserReaction: result.UserReaction}, http.StatusOK)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	result, err := h.CommentService.Submit(r.Context(), identity.From(r.Context()), values["post_id"], values)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.Comments.Inc()

	writeSuccess(w, CommentResponse{
		Success: true,
		Comment: CommentPayload{Author: result.Author, Content: result.Content, CreatedAt: result.CreatedAt},
	}, http.StatusOK)
}

func (h *Handlers) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	result, err := h.NewsletterService.Subscribe(r.Context(), values["email"])
	if err != nil {
		if _, ok := service.AsValidation(err); ok && strings.TrimSpace(values["email"]) == "" {
			WriteError(w, "Email is required", http.StatusBadRequest)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.Subscriptions.WithLabelValues(result.String()).Inc()

	writeSuccess(w, MessageResponse{Success: true, Message: service.SubscribedMessage}, http.StatusOK)
}

func (h *Handlers) UnsubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	values, err := requestValues(r)
	if err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if err := h.NewsletterService.Unsubscribe(r.Context(), values["email"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Metrics.Subscriptions.WithLabelValues("unsubscribed").Inc()

	writeSuccess(w, MessageResponse{Success: true, Message: "You have been unsubscribed from our newsletter."}, http.StatusOK)
}
