package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"github.com/skillswap/skillswap-api/internal/services"
	"github.com/skillswap/skillswap-api/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SwapHandler handles HTTP requests related to swap requests.
type SwapHandler struct {
	Service             *services.SwapService
	NotificationService *services.NotificationService
}

// NewSwapHandler creates a new instance of SwapHandler.
func NewSwapHandler(swapService *services.SwapService, notificationService *services.NotificationService) *SwapHandler {
	return &SwapHandler{
		Service:             swapService,
		NotificationService: notificationService,
	}
}

// CreateSwapRequestHandler handles the creation of a new swap request.
func (h *SwapHandler) CreateSwapRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized attempt to create swap request")
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Recipient      string    `json:"recipient"`
		SkillOffered   string    `json:"skill_offered"`
		SkillRequested string    `json:"skill_requested"`
		Message        string    `json:"message"`
		ScheduledDate  time.Time `json:"scheduled_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during swap creation")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Invalid user ID")
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(body.Recipient)
	if err != nil {
		respondError(w, http.StatusNotFound, "Recipient not found")
		return
	}

	swapRequest, err := h.Service.CreateSwapRequest(r.Context(), requesterID, recipientID,
		body.SkillOffered, body.SkillRequested, body.Message, body.ScheduledDate)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create swap request")
		respondError(w, swapErrorStatus(err), err.Error())
		return
	}

	_ = h.NotificationService.CreateNotification(r.Context(), recipientID,
		models.NotificationSwapReceived, "New Swap Request",
		fmt.Sprintf("%s wants to trade %q for your %q.", swapRequest.Requester.Name, body.SkillOffered, body.SkillRequested),
		&swapRequest.ID)

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"swapID": swapRequest.ID.Hex(),
	}).Info("Swap request created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Swap request sent successfully",
		"swapRequest": swapRequest,
	})
}

// GetSwapRequestsHandler lists the caller's swap requests with pagination.
func (h *SwapHandler) GetSwapRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	query := r.URL.Query()
	swapType := query.Get("type")
	if swapType == "" {
		swapType = "all"
	}
	status := query.Get("status")

	var page int64 = 1
	if parsed, err := strconv.ParseInt(query.Get("page"), 10, 64); err == nil && parsed > 0 {
		page = parsed
	}
	var limit int64 = 10
	if parsed, err := strconv.ParseInt(query.Get("limit"), 10, 64); err == nil && parsed > 0 {
		limit = parsed
	}

	result, err := h.Service.GetSwapRequests(r.Context(), userID, swapType, status, page, limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch swap requests")
		respondError(w, http.StatusInternalServerError, "Failed to fetch swap requests")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UpdateSwapRequestHandler lets the recipient accept or reject a request.
func (h *SwapHandler) UpdateSwapRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	swapID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Swap request not found")
		return
	}

	var body struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	callerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	swapRequest, err := h.Service.UpdateSwapRequest(r.Context(), swapID, callerID, body.Status, body.RejectionReason)
	if err != nil {
		logrus.WithError(err).Warnf("Failed to update swap request %s", vars["id"])
		respondError(w, swapErrorStatus(err), err.Error())
		return
	}

	notifType := models.NotificationSwapAccepted
	if body.Status == models.SwapStatusRejected {
		notifType = models.NotificationSwapRejected
	}
	_ = h.NotificationService.CreateNotification(r.Context(), swapRequest.Requester.ID,
		notifType, "Swap Request "+body.Status,
		fmt.Sprintf("%s %s your swap request.", swapRequest.Recipient.Name, body.Status),
		&swapRequest.ID)

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"swapID": vars["id"],
		"status": body.Status,
	}).Info("Swap request updated")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     fmt.Sprintf("Swap request %s successfully", body.Status),
		"swapRequest": swapRequest,
	})
}

// DeleteSwapRequestHandler lets the requester withdraw a pending request.
func (h *SwapHandler) DeleteSwapRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	swapID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Swap request not found")
		return
	}

	callerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteSwapRequest(r.Context(), swapID, callerID); err != nil {
		logrus.WithError(err).Warnf("Failed to delete swap request %s", vars["id"])
		respondError(w, swapErrorStatus(err), err.Error())
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"swapID": vars["id"],
	}).Info("Swap request deleted")

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Swap request deleted successfully",
	})
}

// CompleteSwapHandler marks an accepted swap as completed.
func (h *SwapHandler) CompleteSwapHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	swapID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Swap request not found")
		return
	}

	callerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	swapRequest, err := h.Service.MarkSwapCompleted(r.Context(), swapID, callerID)
	if err != nil {
		logrus.WithError(err).Warnf("Failed to complete swap %s", vars["id"])
		respondError(w, swapErrorStatus(err), err.Error())
		return
	}

	// Tell the counterparty the swap is done and feedback is open.
	counterparty := swapRequest.Requester.ID
	if counterparty == callerID {
		counterparty = swapRequest.Recipient.ID
	}
	_ = h.NotificationService.CreateNotification(r.Context(), counterparty,
		models.NotificationSwapCompleted, "Swap Completed",
		"Your swap was marked as completed. Leave feedback for your partner!",
		&swapRequest.ID)

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"swapID": vars["id"],
	}).Info("Swap marked as completed")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Swap marked as completed",
		"swapRequest": swapRequest,
	})
}
