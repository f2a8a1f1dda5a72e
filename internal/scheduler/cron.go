package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/internal/jobs"
	"github.com/skillswap/skillswap-api/internal/services"
)

// StartCronJobs wires the periodic jobs: hourly swap reminders and a daily
// purge of expired notifications.
func StartCronJobs(reminder *jobs.SwapReminder, notificationService *services.NotificationService) {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := reminder.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Swap reminder scan failed")
		}
	})

	c.AddFunc("0 0 * * *", func() {
		if err := notificationService.DeleteExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("Expired notification cleanup failed")
		}
	})

	c.Start()
}
