package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogcms/internal/forms"
	handlers "blogcms/internal/handler"
	"blogcms/internal/models"
	"blogcms/internal/repository"
	"blogcms/internal/service"
)

const postID = "4b7e2c1a-9d3f-4e5b-8a6c-7d8e9f0a1b2c"

// assertJSONError checks the JSON response with an error
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Contains(t, response["error"], expectedError)
}

func jsonRequest(t *testing.T, target string, body interface{}) *http.Request {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAddReaction_Success(t *testing.T) {
	h, m := createTestHandler(t, nil)

	m.reaction.On("React", mock.Anything, reader, postID, "love").Return(&service.ReactionResult{
		Reactions:    []models.ReactionCount{{ReactionType: "like", Count: 2}, {ReactionType: "love", Count: 1}},
		UserReaction: "love",
	}, nil)

	rr := httptest.NewRecorder()
	h.AddReaction(rr, as(jsonRequest(t, "/api/reaction", map[string]string{"post_id": postID, "reaction_type": "love"}), reader))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"success": true,
		"reactions": [{"reaction_type": "like", "count": 2}, {"reaction_type": "love", "count": 1}],
		"user_reaction": "love"
	}`, rr.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.Reactions.WithLabelValues("love")))
}

func TestAddReaction_Errors(t *testing.T) {
	invalid := forms.Errors{}
	invalid.Add("reaction_type", "Select a valid choice.")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid type", &service.ValidationError{Fields: invalid}, http.StatusBadRequest, "Select a valid choice."},
		{"missing post", service.ErrNotFound, http.StatusNotFound, "Not found."},
		{"anonymous", service.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required."},
		{"database down", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := createTestHandler(t, nil)
			m.reaction.On("React", mock.Anything, reader, postID, "meh").Return(nil, tt.err)

			rr := httptest.NewRecorder()
			h.AddReaction(rr, as(jsonRequest(t, "/api/reaction", map[string]string{"post_id": postID, "reaction_type": "meh"}), reader))

			assertJSONError(t, rr, tt.wantStatus, tt.wantError)
		})
	}
}

func TestAddComment_FormEncoded(t *testing.T) {
	h, m := createTestHandler(t, nil)

	form := url.Values{"post_id": {postID}, "content": {"Nice read"}}
	m.comment.On("Submit", mock.Anything, reader, postID, map[string]string{"post_id": postID, "content": "Nice read"}).
		Return(&service.CommentResult{Author: "reader", Content: "Nice read", CreatedAt: "March 04, 2025 at 09:15 AM"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/comment", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	h.AddComment(rr, as(req, reader))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"success": true,
		"comment": {"author": "reader", "content": "Nice read", "created_at": "March 04, 2025 at 09:15 AM"}
	}`, rr.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.Comments))
}

func TestAddComment_ValidationErrors(t *testing.T) {
	h, m := createTestHandler(t, nil)

	errs := forms.Errors{}
	errs.Add("content", "This field is required.")
	m.comment.On("Submit", mock.Anything, reader, postID, mock.Anything).Return(nil, &service.ValidationError{Fields: errs})

	rr := httptest.NewRecorder()
	h.AddComment(rr, as(jsonRequest(t, "/api/comment", map[string]string{"post_id": postID}), reader))

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var response handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, []string{"This field is required."}, response.Errors["content"])
	assert.Zero(t, testutil.ToFloat64(h.Metrics.Comments))
}

func TestAddComment_MalformedBody(t *testing.T) {
	h, _ := createTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/comment", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.AddComment(rr, as(req, reader))

	assertJSONError(t, rr, http.StatusBadRequest, "Invalid request body.")
}

func TestSubscribeNewsletter(t *testing.T) {
	t.Run("subscribes", func(t *testing.T) {
		h, m := createTestHandler(t, nil)
		m.newsletter.On("Subscribe", mock.Anything, "ann@example.com").Return(repository.SubscribeCreated, nil)

		rr := httptest.NewRecorder()
		h.SubscribeNewsletter(rr, jsonRequest(t, "/api/newsletter", map[string]string{"email": "ann@example.com"}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success": true, "message": "Successfully subscribed to our newsletter!"}`, rr.Body.String())
		assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.Subscriptions.WithLabelValues(repository.SubscribeCreated.String())))
	})

	for name, body := range map[string]map[string]string{
		"missing email":    {},
		"empty email":      {"email": ""},
		"whitespace email": {"email": "   \t"},
	} {
		t.Run(name, func(t *testing.T) {
			h, m := createTestHandler(t, nil)
			errs := forms.Errors{}
			errs.Add("email", "This field is required.")
			m.newsletter.On("Subscribe", mock.Anything, body["email"]).Return(repository.SubscribeCreated, &service.ValidationError{Fields: errs})

			rr := httptest.NewRecorder()
			h.SubscribeNewsletter(rr, jsonRequest(t, "/api/newsletter", body))

			assertJSONError(t, rr, http.StatusBadRequest, "Email is required")
		})
	}

	t.Run("malformed email", func(t *testing.T) {
		h, m := createTestHandler(t, nil)
		errs := forms.Errors{}
		errs.Add("email", "Enter a valid email address.")
		m.newsletter.On("Subscribe", mock.Anything, "nope").Return(repository.SubscribeCreated, &service.ValidationError{Fields: errs})

		rr := httptest.NewRecorder()
		h.SubscribeNewsletter(rr, jsonRequest(t, "/api/newsletter", map[string]string{"email": "nope"}))

		assertJSONError(t, rr, http.StatusBadRequest, "Enter a valid email address.")
	})
}

func TestUnsubscribeNewsletter(t *testing.T) {
	h, m := createTestHandler(t, nil)
	m.newsletter.On("Unsubscribe", mock.Anything, "ann@example.com").Return(nil)

	rr := httptest.NewRecorder()
	h.UnsubscribeNewsletter(rr, jsonRequest(t, "/api/newsletter/unsubscribe", map[string]string{"email": "ann@example.com"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "unsubscribed")
	m.newsletter.AssertExpectations(t)
}
