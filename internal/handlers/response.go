package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-api/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the {"error": message} body every failure path uses.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// swapErrorStatus maps service errors onto the HTTP codes of the swap
// endpoints: missing entities are 404, authorization failures 403, violated
// state preconditions 400, anything else 500.
func swapErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSwapNotFound),
		errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrDeleteNotPending),
		errors.Is(err, services.ErrNotAccepted),
		errors.Is(err, services.ErrSwapNotCompleted),
		errors.Is(err, services.ErrFeedbackExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
