package services

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the services. The Mongo repositories in
// internal/repository satisfy them; tests plug in in-memory fakes. Lookup
// methods report a missing document as (nil, nil), not as an error.

type SwapStore interface {
	CreateSwapRequest(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error)
	GetSwapRequestByID(ctx context.Context, id primitive.ObjectID) (*models.SwapRequest, error)
	FindPendingRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID, skillRequested string) (*models.SwapRequest, error)
	FindSwapRequests(ctx context.Context, filter models.SwapRequestFilter) ([]models.SwapRequest, int64, error)
	FindScheduledBetween(ctx context.Context, from, to time.Time) ([]models.SwapRequest, error)
	UpdateSwapRequest(ctx context.Context, id primitive.ObjectID, req *models.SwapRequest) error
	DeleteSwapRequest(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) error
	UpdateRating(ctx context.Context, id primitive.ObjectID, average float64, count int) error
	UpdateLastActive(ctx context.Context, id primitive.ObjectID) error
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchBySkill(ctx context.Context, skill string) ([]models.User, error)
	GetTopRated(ctx context.Context, limit int64) ([]models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) (*models.Feedback, error)
	GetBySwapAndReviewer(ctx context.Context, swapID, reviewerID primitive.ObjectID) (*models.Feedback, error)
	GetByReviewee(ctx context.Context, revieweeID primitive.ObjectID) ([]models.Feedback, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
	GetLatestNotificationByType(ctx context.Context, userID primitive.ObjectID, notifType string, targetID primitive.ObjectID) (*models.Notification, error)
	DeleteExpiredNotifications(ctx context.Context) error
}
