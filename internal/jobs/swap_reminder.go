package jobs

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/services"
)

// SwapReminder drives the periodic upcoming-swap scan.
type SwapReminder struct {
	NotificationService *services.NotificationService
}

// NewSwapReminder creates a new instance of SwapReminder.
func NewSwapReminder(notifService *services.NotificationService) *SwapReminder {
	return &SwapReminder{
		NotificationService: notifService,
	}
}

// Run reminds both parties of accepted swaps scheduled within the next 24h.
func (j *SwapReminder) Run(ctx context.Context) error {
	if err := j.NotificationService.CheckUpcomingSwaps(ctx); err != nil {
		return err
	}
	logrus.Info("Swap reminder scan completed")
	return nil
}
