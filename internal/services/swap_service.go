package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SwapService handles the business logic of the swap request lifecycle:
// creation, listing, accept/reject, deletion and completion.
type SwapService struct {
	swapStore SwapStore
	userStore UserStore
}

// NewSwapService creates a new SwapService.
func NewSwapService(swapStore SwapStore, userStore UserStore) *SwapService {
	return &SwapService{
		swapStore: swapStore,
		userStore: userStore,
	}
}

// CreateSwapRequest creates a pending swap request from requester to
// recipient. The recipient must exist and be active, must not be the
// requester, and no identical pending request may already exist.
func (s *SwapService) CreateSwapRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID, skillOffered, skillRequested, message string, scheduledDate time.Time) (*models.PopulatedSwapRequest, error) {
	recipient, err := s.userStore.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || !recipient.IsActive {
		return nil, ErrRecipientNotFound
	}

	if requesterID == recipientID {
		return nil, ErrSelfRequest
	}

	existing, err := s.swapStore.FindPendingRequest(ctx, requesterID, recipientID, skillRequested)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	req := &models.SwapRequest{
		RequesterID:    requesterID,
		RecipientID:    recipientID,
		SkillOffered:   skillOffered,
		SkillRequested: skillRequested,
		Message:        message,
		ScheduledDate:  scheduledDate,
	}

	created, err := s.swapStore.CreateSwapRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"swapID":      created.ID.Hex(),
		"requesterID": requesterID.Hex(),
		"recipientID": recipientID.Hex(),
	}).Info("Swap request created")

	return s.populate(ctx, created)
}

// GetSwapRequests returns one page of the caller's swap requests, newest
// first, with both parties expanded.
func (s *SwapService) GetSwapRequests(ctx context.Context, userID primitive.ObjectID, swapType, status string, page, limit int64) (*models.SwapRequestPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := models.SwapRequestFilter{
		UserID: userID,
		Type:   swapType,
		Status: status,
		Page:   page,
		Limit:  limit,
	}

	requests, total, err := s.swapStore.FindSwapRequests(ctx, filter)
	if err != nil {
		return nil, err
	}

	populated, err := s.populateAll(ctx, requests)
	if err != nil {
		return nil, err
	}

	return &models.SwapRequestPage{
		SwapRequests: populated,
		TotalPages:   int64(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:  page,
		Total:        total,
	}, nil
}

// UpdateSwapRequest lets the recipient accept or reject a pending request.
// Rejection stamps the time and stores the optional reason.
func (s *SwapService) UpdateSwapRequest(ctx context.Context, id, callerID primitive.ObjectID, status, rejectionReason string) (*models.PopulatedSwapRequest, error) {
	req, err := s.swapStore.GetSwapRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrSwapNotFound
	}

	if req.RecipientID != callerID {
		return nil, ErrNotAuthorized
	}

	if status != models.SwapStatusAccepted && status != models.SwapStatusRejected {
		return nil, ErrInvalidStatus
	}

	if req.Status != models.SwapStatusPending {
		return nil, ErrNotPending
	}

	req.Status = status
	if status == models.SwapStatusRejected {
		now := time.Now()
		req.RejectedAt = &now
		req.RejectionReason = rejectionReason
	}

	if err := s.swapStore.UpdateSwapRequest(ctx, id, req); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"swapID": id.Hex(),
		"status": status,
	}).Info("Swap request updated")

	return s.populate(ctx, req)
}

// DeleteSwapRequest removes a request. Only the requester may delete, and
// only while the request is still pending.
func (s *SwapService) DeleteSwapRequest(ctx context.Context, id, callerID primitive.ObjectID) error {
	req, err := s.swapStore.GetSwapRequestByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrSwapNotFound
	}

	if req.RequesterID != callerID {
		return ErrNotAuthorized
	}

	if req.Status != models.SwapStatusPending {
		return ErrDeleteNotPending
	}

	return s.swapStore.DeleteSwapRequest(ctx, id)
}

// MarkSwapCompleted moves an accepted swap to completed. Either party may
// do it.
func (s *SwapService) MarkSwapCompleted(ctx context.Context, id, callerID primitive.ObjectID) (*models.PopulatedSwapRequest, error) {
	req, err := s.swapStore.GetSwapRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrSwapNotFound
	}

	if !req.IsParty(callerID) {
		return nil, ErrNotAuthorized
	}

	if req.Status != models.SwapStatusAccepted {
		return nil, ErrNotAccepted
	}

	now := time.Now()
	req.Status = models.SwapStatusCompleted
	req.CompletedAt = &now

	if err := s.swapStore.UpdateSwapRequest(ctx, id, req); err != nil {
		return nil, err
	}

	logrus.WithField("swapID", id.Hex()).Info("Swap marked as completed")
	return s.populate(ctx, req)
}

// populate expands requester and recipient to their public profiles.
func (s *SwapService) populate(ctx context.Context, req *models.SwapRequest) (*models.PopulatedSwapRequest, error) {
	users, err := s.userStore.GetUsersByIDs(ctx, []primitive.ObjectID{req.RequesterID, req.RecipientID})
	if err != nil {
		return nil, fmt.Errorf("failed to load swap parties: %v", err)
	}

	byID := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Public()
	}

	return &models.PopulatedSwapRequest{
		ID:              req.ID,
		Requester:       byID[req.RequesterID],
		Recipient:       byID[req.RecipientID],
		SkillOffered:    req.SkillOffered,
		SkillRequested:  req.SkillRequested,
		Message:         req.Message,
		ScheduledDate:   req.ScheduledDate,
		Status:          req.Status,
		RejectedAt:      req.RejectedAt,
		RejectionReason: req.RejectionReason,
		CompletedAt:     req.CompletedAt,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}, nil
}

func (s *SwapService) populateAll(ctx context.Context, requests []models.SwapRequest) ([]models.PopulatedSwapRequest, error) {
	ids := make([]primitive.ObjectID, 0, len(requests)*2)
	seen := make(map[primitive.ObjectID]bool)
	for i := range requests {
		for _, id := range []primitive.ObjectID{requests[i].RequesterID, requests[i].RecipientID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	byID := make(map[primitive.ObjectID]models.PublicUser, len(ids))
	if len(ids) > 0 {
		users, err := s.userStore.GetUsersByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load swap parties: %v", err)
		}
		for i := range users {
			byID[users[i].ID] = users[i].Public()
		}
	}

	populated := make([]models.PopulatedSwapRequest, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		populated = append(populated, models.PopulatedSwapRequest{
			ID:              req.ID,
			Requester:       byID[req.RequesterID],
			Recipient:       byID[req.RecipientID],
			SkillOffered:    req.SkillOffered,
			SkillRequested:  req.SkillRequested,
			Message:         req.Message,
			ScheduledDate:   req.ScheduledDate,
			Status:          req.Status,
			RejectedAt:      req.RejectedAt,
			RejectionReason: req.RejectionReason,
			CompletedAt:     req.CompletedAt,
			CreatedAt:       req.CreatedAt,
			UpdatedAt:       req.UpdatedAt,
		})
	}

	return populated, nil
}
