package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Broadcaster pushes a freshly created notification to a connected client.
// Implemented by the websocket hub in internal/handlers; may be nil.
type Broadcaster interface {
	Publish(userID string, notif *models.Notification)
}

// NotificationService records swap lifecycle notifications and runs the
// periodic reminder and cleanup scans.
type NotificationService struct {
	repo        NotificationStore
	swapStore   SwapStore
	broadcaster Broadcaster
}

// NewNotificationService creates a new NotificationService. broadcaster is
// optional.
func NewNotificationService(repo NotificationStore, swapStore SwapStore, broadcaster Broadcaster) *NotificationService {
	return &NotificationService{
		repo:        repo,
		swapStore:   swapStore,
		broadcaster: broadcaster,
	}
}

// CreateNotification logs a new notification for a user and pushes it to the
// live stream if the user is connected.
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}

	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(userID.Hex(), notif)
	}
	return nil
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of a notification to true
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, notifID)
}

// DeleteNotification deletes a specific notification
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.DeleteNotification(ctx, notifID)
}

// DeleteExpiredNotifications purges notifications past their expiry. Called
// daily by cron.
func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}

// CheckUpcomingSwaps reminds both parties of accepted swaps scheduled within
// the next 24 hours. Called hourly by cron; deduped per swap and user.
func (s *NotificationService) CheckUpcomingSwaps(ctx context.Context) error {
	now := time.Now()
	swaps, err := s.swapStore.FindScheduledBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to fetch upcoming swaps: %w", err)
	}

	for i := range swaps {
		swap := &swaps[i]
		message := fmt.Sprintf("Your %q for %q swap is scheduled for %s.",
			swap.SkillOffered, swap.SkillRequested, swap.ScheduledDate.Format("Jan 2 15:04"))

		for _, userID := range []primitive.ObjectID{swap.RequesterID, swap.RecipientID} {
			existing, err := s.repo.GetLatestNotificationByType(ctx, userID, models.NotificationSwapUpcoming, swap.ID)
			if err == nil && existing != nil {
				continue // already reminded
			}

			if err := s.CreateNotification(ctx, userID, models.NotificationSwapUpcoming, "Swap Coming Up", message, &swap.ID); err != nil {
				logrus.WithError(err).Warnf("Failed to send swap reminder for swap %s", swap.ID.Hex())
			}
		}
	}

	return nil
}
