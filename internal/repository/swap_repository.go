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

// SwapRepository handles database operations related to swap requests.
type SwapRepository struct {
	collection *mongo.Collection
}

// NewSwapRepository creates a new instance of SwapRepository.
func NewSwapRepository(db *mongo.Database) *SwapRepository {
	return &SwapRepository{
		collection: db.Collection("swap_requests"),
	}
}

// CreateSwapRequest inserts a new swap request with status pending.
func (r *SwapRepository) CreateSwapRequest(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	req.Status = models.SwapStatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert swap request")
		return nil, fmt.Errorf("failed to insert swap request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// GetSwapRequestByID fetches a single swap request. A missing document is
// reported as (nil, nil) so callers can distinguish absence from failure.
func (r *SwapRepository) GetSwapRequestByID(ctx context.Context, id primitive.ObjectID) (*models.SwapRequest, error) {
	var req models.SwapRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find swap request: %v", err)
	}
	return &req, nil
}

// FindPendingRequest looks up an existing pending request for the same
// (requester, recipient, skill requested) triple.
func (r *SwapRepository) FindPendingRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID, skillRequested string) (*models.SwapRequest, error) {
	filter := bson.M{
		"requester":       requesterID,
		"recipient":       recipientID,
		"skill_requested": skillRequested,
		"status":          models.SwapStatusPending,
	}

	var req models.SwapRequest
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending swap request: %v", err)
	}
	return &req, nil
}

// FindSwapRequests returns one page of swap requests matching the filter,
// newest first, together with the total match count.
func (r *SwapRepository) FindSwapRequests(ctx context.Context, filter models.SwapRequestFilter) ([]models.SwapRequest, int64, error) {
	query := bson.M{}

	switch filter.Type {
	case "sent":
		query["requester"] = filter.UserID
	case "received":
		query["recipient"] = filter.UserID
	default:
		query["$or"] = []bson.M{
			{"requester": filter.UserID},
			{"recipient": filter.UserID},
		}
	}

	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count swap requests: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch swap requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.SwapRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode swap requests: %v", err)
	}

	return requests, total, nil
}

// FindScheduledBetween returns accepted swaps whose scheduled date falls in
// (from, to]. Used by the reminder job.
func (r *SwapRepository) FindScheduledBetween(ctx context.Context, from, to time.Time) ([]models.SwapRequest, error) {
	filter := bson.M{
		"status":         models.SwapStatusAccepted,
		"scheduled_date": bson.M{"$gt": from, "$lte": to},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled swaps: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.SwapRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled swaps: %v", err)
	}
	return requests, nil
}

// UpdateSwapRequest overwrites the mutable fields of an existing request.
func (r *SwapRepository) UpdateSwapRequest(ctx context.Context, id primitive.ObjectID, req *models.SwapRequest) error {
	req.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": req})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"swapID": id.Hex(),
			"error":  err,
		}).Error("Failed to update swap request")
		return fmt.Errorf("failed to update swap request: %v", err)
	}
	return nil
}

// DeleteSwapRequest permanently removes a swap request.
func (r *SwapRepository) DeleteSwapRequest(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete swap request: %v", err)
	}
	logrus.WithField("swapID", id.Hex()).Info("Swap request deleted")
	return nil
}
