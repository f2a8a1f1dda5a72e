package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/skillswap/skillswap-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func feedbackBody(swapID primitive.ObjectID, rating int, comment string) *bytes.Buffer {
	payload := map[string]interface{}{
		"swap_request_id": swapID.Hex(),
		"rating":          rating,
		"comment":         comment,
	}
	buf := &bytes.Buffer{}
	_ = json.NewEncoder(buf).Encode(payload)
	return buf
}

// completedSwap runs a swap through create, accept and complete.
func completedSwap(t *testing.T, env *testEnv, requester, recipient *models.User) primitive.ObjectID {
	t.Helper()
	swapID := createSwap(t, env, requester, recipient)
	rec := updateSwap(t, env, swapID, recipient.ID, models.SwapStatusAccepted)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/swaps/"+swapID.Hex()+"/complete", nil)
	req = mux.SetURLVars(req, map[string]string{"id": swapID.Hex()})
	recorder := httptest.NewRecorder()
	env.swapHandler.CompleteSwapHandler(recorder, authed(req, requester.ID))
	require.Equal(t, http.StatusOK, recorder.Code)
	return swapID
}

func TestSubmitFeedbackHandler(t *testing.T) {
	env := newTestEnv()
	alice := env.users.addUser("alice")
	bob := env.users.addUser("bob")
	swapID := completedSwap(t, env, alice, bob)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", feedbackBody(swapID, 5, "great teacher"))
	rec := httptest.NewRecorder()
	env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Feedback submitted successfully", body["message"])

	feedback := body["feedback"].(map[string]interface{})
	assert.Equal(t, bob.ID.Hex(), feedback["reviewee"])
	assert.EqualValues(t, 5, feedback["rating"])

	// Reviewee's aggregate rating is updated.
	assert.Equal(t, 5.0, env.users.users[bob.ID].Rating.Average)
	assert.Equal(t, 1, env.users.users[bob.ID].Rating.Count)

	// Reviewee is notified.
	last := env.notifications.notifications[len(env.notifications.notifications)-1]
	assert.Equal(t, bob.ID, last.UserID)
	assert.Equal(t, models.NotificationFeedback, last.Type)
}

func TestSubmitFeedbackHandlerDuplicate(t *testing.T) {
	env := newTestEnv()
	alice := env.users.addUser("alice")
	bob := env.users.addUser("bob")
	swapID := completedSwap(t, env, alice, bob)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", feedbackBody(swapID, 5, ""))
	rec := httptest.NewRecorder()
	env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/feedback", feedbackBody(swapID, 3, ""))
	rec = httptest.NewRecorder()
	env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "feedback already submitted for this swap", body["error"])
}

func TestSubmitFeedbackHandlerSwapNotCompleted(t *testing.T) {
	env := newTestEnv()
	alice := env.users.addUser("alice")
	bob := env.users.addUser("bob")
	swapID := createSwap(t, env, alice, bob)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", feedbackBody(swapID, 4, ""))
	rec := httptest.NewRecorder()
	env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid or incomplete swap request", body["error"])
}

func TestSubmitFeedbackHandlerRatingOutOfRange(t *testing.T) {
	env := newTestEnv()
	alice := env.users.addUser("alice")
	bob := env.users.addUser("bob")
	swapID := completedSwap(t, env, alice, bob)

	for _, rating := range []int{0, 6, -1} {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", feedbackBody(swapID, rating, ""))
		rec := httptest.NewRecorder()
		env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}
}

func TestSubmitFeedbackHandlerBadSwapID(t *testing.T) {
	env := newTestEnv()
	alice := env.users.addUser("alice")

	payload := []byte(`{"swap_request_id": "nope", "rating": 5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid or incomplete swap request", body["error"])
}

func TestGetUserFeedbackHandler(t *testing.T) {
	env := newTestEnv()
	alice := env.users.addUser("alice")
	bob := env.users.addUser("bob")
	swapID := completedSwap(t, env, alice, bob)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", feedbackBody(swapID, 4, "solid"))
	rec := httptest.NewRecorder()
	env.fbHandler.SubmitFeedbackHandler(rec, authed(req, alice.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/"+bob.ID.Hex()+"/feedback", nil)
	req = mux.SetURLVars(req, map[string]string{"id": bob.ID.Hex()})
	rec = httptest.NewRecorder()
	env.fbHandler.GetUserFeedbackHandler(rec, authed(req, alice.ID))

	require.Equal(t, http.StatusOK, rec.Code)
	var feedback []models.Feedback
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&feedback))
	require.Len(t, feedback, 1)
	assert.Equal(t, 4, feedback[0].Rating)
	assert.Equal(t, "solid", feedback[0].Comment)
}
