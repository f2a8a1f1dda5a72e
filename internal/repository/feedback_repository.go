package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedbackRepository handles database operations related to swap feedback.
type FeedbackRepository struct {
	collection *mongo.Collection
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{
		collection: db.Collection("feedback"),
	}
}

// EnsureIndexes creates the unique (swap_request, reviewer) index that backs
// the one-feedback-per-reviewer rule against concurrent submissions.
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "swap_request", Value: 1}, {Key: "reviewer", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create feedback index: %v", err)
	}
	return nil
}

// CreateFeedback inserts a new feedback record.
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	fb.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, fb)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert feedback")
		return nil, fmt.Errorf("failed to insert feedback: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	fb.ID = insertedID

	return fb, nil
}

// GetBySwapAndReviewer looks up the feedback a reviewer already left for a
// swap, if any.
func (r *FeedbackRepository) GetBySwapAndReviewer(ctx context.Context, swapID, reviewerID primitive.ObjectID) (*models.Feedback, error) {
	var fb models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"swap_request": swapID, "reviewer": reviewerID}).Decode(&fb)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %v", err)
	}
	return &fb, nil
}

// GetByReviewee returns every feedback record received by a user, newest
// first. The rating recompute reads this full set.
func (r *FeedbackRepository) GetByReviewee(ctx context.Context, revieweeID primitive.ObjectID) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"reviewee": revieweeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %v", err)
	}
	defer cursor.Close(ctx)

	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %v", err)
	}
	return feedback, nil
}
