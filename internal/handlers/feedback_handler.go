package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"github.com/skillswap/skillswap-api/internal/services"
	"github.com/skillswap/skillswap-api/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackHandler handles HTTP requests related to swap feedback.
type FeedbackHandler struct {
	Service             *services.FeedbackService
	NotificationService *services.NotificationService
}

// NewFeedbackHandler creates a new instance of FeedbackHandler.
func NewFeedbackHandler(service *services.FeedbackService, notificationService *services.NotificationService) *FeedbackHandler {
	return &FeedbackHandler{
		Service:             service,
		NotificationService: notificationService,
	}
}

// SubmitFeedbackHandler records feedback for a completed swap.
func (h *FeedbackHandler) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		SwapRequestID string `json:"swap_request_id"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	swapID, err := primitive.ObjectIDFromHex(body.SwapRequestID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid or incomplete swap request")
		return
	}

	if body.Rating < 1 || body.Rating > 5 {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	reviewerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	feedback, err := h.Service.SubmitFeedback(r.Context(), reviewerID, swapID, body.Rating, body.Comment)
	if err != nil {
		logrus.WithError(err).Warn("Failed to submit feedback")
		respondError(w, swapErrorStatus(err), err.Error())
		return
	}

	_ = h.NotificationService.CreateNotification(r.Context(), feedback.RevieweeID,
		models.NotificationFeedback, "New Feedback",
		"You received new feedback on a completed swap.",
		&feedback.ID)

	logrus.WithFields(logrus.Fields{
		"userID":     claims.UserID,
		"feedbackID": feedback.ID.Hex(),
	}).Info("Feedback submitted")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Feedback submitted successfully",
		"feedback": feedback,
	})
}

// GetUserFeedbackHandler lists the feedback a user has received.
func (h *FeedbackHandler) GetUserFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	feedback, err := h.Service.GetUserFeedback(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch feedback")
		respondError(w, http.StatusInternalServerError, "Failed to fetch feedback")
		return
	}

	respondJSON(w, http.StatusOK, feedback)
}
