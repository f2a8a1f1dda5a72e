package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingCache mirrors rating averages into a leaderboard. Implemented by
// cache.LeaderboardCache; may be nil, in which case it is skipped.
type RatingCache interface {
	SetUserRating(ctx context.Context, userID string, average float64) error
	RemoveUser(ctx context.Context, userID string) error
	TopRated(ctx context.Context, limit int64) ([]string, error)
}

// FeedbackService handles post-completion reviews and the aggregate rating
// they roll up into.
type FeedbackService struct {
	feedbackStore FeedbackStore
	swapStore     SwapStore
	userStore     UserStore
	ratingCache   RatingCache
}

// NewFeedbackService creates a new FeedbackService. ratingCache is optional.
func NewFeedbackService(feedbackStore FeedbackStore, swapStore SwapStore, userStore UserStore, ratingCache RatingCache) *FeedbackService {
	return &FeedbackService{
		feedbackStore: feedbackStore,
		swapStore:     swapStore,
		userStore:     userStore,
		ratingCache:   ratingCache,
	}
}

// SubmitFeedback records a review for a completed swap and recomputes the
// reviewee's aggregate rating from the full feedback set. The recompute is a
// serial read-all-then-write; concurrent submissions for the same reviewee
// are last-write-wins, with the unique store index guarding duplicates.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, reviewerID, swapRequestID primitive.ObjectID, rating int, comment string) (*models.Feedback, error) {
	swap, err := s.swapStore.GetSwapRequestByID(ctx, swapRequestID)
	if err != nil {
		return nil, err
	}
	if swap == nil || swap.Status != models.SwapStatusCompleted {
		return nil, ErrSwapNotCompleted
	}

	revieweeID := swap.CounterpartyOf(reviewerID)

	existing, err := s.feedbackStore.GetBySwapAndReviewer(ctx, swapRequestID, reviewerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFeedbackExists
	}

	fb := &models.Feedback{
		SwapRequestID: swapRequestID,
		ReviewerID:    reviewerID,
		RevieweeID:    revieweeID,
		Rating:        rating,
		Comment:       comment,
	}

	created, err := s.feedbackStore.CreateFeedback(ctx, fb)
	if err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, revieweeID); err != nil {
		logrus.WithError(err).WithField("revieweeID", revieweeID.Hex()).
			Error("Failed to recompute rating after feedback")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"feedbackID": created.ID.Hex(),
		"reviewerID": reviewerID.Hex(),
		"revieweeID": revieweeID.Hex(),
		"rating":     rating,
	}).Info("Feedback submitted")

	return created, nil
}

// GetUserFeedback returns every review a user has received, newest first.
func (s *FeedbackService) GetUserFeedback(ctx context.Context, userID primitive.ObjectID) ([]models.Feedback, error) {
	feedback, err := s.feedbackStore.GetByReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if feedback == nil {
		feedback = []models.Feedback{}
	}
	return feedback, nil
}

// recomputeRating loads the reviewee's full feedback set, averages it and
// writes the aggregate back onto the user record and the leaderboard.
func (s *FeedbackService) recomputeRating(ctx context.Context, revieweeID primitive.ObjectID) error {
	feedback, err := s.feedbackStore.GetByReviewee(ctx, revieweeID)
	if err != nil {
		return err
	}

	sum := 0
	for _, fb := range feedback {
		sum += fb.Rating
	}
	average := float64(sum) / float64(len(feedback))

	if err := s.userStore.UpdateRating(ctx, revieweeID, average, len(feedback)); err != nil {
		return err
	}

	if s.ratingCache != nil {
		if err := s.ratingCache.SetUserRating(ctx, revieweeID.Hex(), average); err != nil {
			// Leaderboard is a cache; Mongo stays authoritative.
			logrus.WithError(err).Warn("Failed to update rating leaderboard")
		}
	}

	return nil
}
