package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"trackarr/internal/models"
	"trackarr/internal/store"
	"trackarr/internal/views"
)

// Notifier delivers a reminder digest to one user. The transport decides how.
type Notifier interface {
	Notify(userID, message string) error
}

// LogNotifier writes digests to the service log. It stands in wherever no
// push transport is attached.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Notify(userID, message string) error {
	n.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"digest":  message,
	}).Info("Reminder digest")
	return nil
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron         *cron.Cron
	store        store.Store
	notifier     Notifier
	reminderCron string
	windowDays   int
	now          func() time.Time
	logger       *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(st store.Store, notifier Notifier, reminderCron string, windowDays int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		store:        st,
		notifier:     notifier,
		reminderCron: reminderCron,
		windowDays:   windowDays,
		now:          time.Now,
		logger:       logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Daily (by default): reminder digests for upcoming premieres
	_, err := s.cron.AddFunc(s.reminderCron, func() {
		s.runReminders()
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}

	// Every hour: store snapshot
	_, err = s.cron.AddFunc("0 * * * *", func() {
		s.runSnapshot()
	})
	if err != nil {
		return fmt.Errorf("failed to add snapshot job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runReminders builds and delivers one digest per user with premieres in the
// window. Users with nothing upcoming are skipped.
func (s *Scheduler) runReminders() {
	s.logger.Info("Running reminder digests")

	users, err := s.store.Users()
	if err != nil {
		s.logger.WithError(err).Error("Reminder job failed to list users")
		return
	}

	sent := 0
	for _, userID := range users {
		collection, err := s.store.GetAll(userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("Reminder job failed to load collection")
			continue
		}

		reminders := views.Reminders(collection, s.now(), s.windowDays)
		if len(reminders) == 0 {
			continue
		}

		if err := s.notifier.Notify(userID, Digest(reminders)); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("Failed to deliver digest")
			continue
		}
		sent++
	}

	s.logger.WithField("digests", sent).Info("Reminder job completed")
}

// runSnapshot executes the snapshot job
func (s *Scheduler) runSnapshot() {
	if err := s.store.Snapshot(); err != nil {
		s.logger.WithError(err).Error("Snapshot job failed")
	}
}

// Digest renders a reminder list as one plain-text message, soonest first.
func Digest(reminders []views.Reminder) string {
	var b strings.Builder
	b.WriteString("Upcoming season premieres:\n")
	for _, r := range reminders {
		b.WriteString(fmt.Sprintf("\n%s - Season %d\n", r.Show.Name, r.NextSeason))
		switch {
		case r.DaysUntil == 0:
			b.WriteString("Today!\n")
		case r.DaysUntil == 1:
			b.WriteString("Tomorrow\n")
		default:
			b.WriteString(fmt.Sprintf("In %d days (%s)\n", r.DaysUntil, r.Date.Format(models.DateLayout)))
		}
	}
	return b.String()
}
