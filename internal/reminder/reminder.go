// Package reminder schedules workout-day reminders for users whose plan
// includes the current weekday. Reminders are emitted as structured log
// records; delivery channels sit outside this service.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/claude/formcoach/internal/models"
)

// PlanSource is the slice of the storage layer the scheduler needs.
type PlanSource interface {
	UsersWithPlans(ctx context.Context) ([]int, error)
	GetCurrentPlan(ctx context.Context, userID int) (*models.WorkoutPlan, error)
}

// Scheduler fires workout reminders on a cron schedule.
type Scheduler struct {
	ds   PlanSource
	log  *slog.Logger
	cron *cron.Cron
}

// New creates a reminder scheduler.
func New(ds PlanSource, log *slog.Logger) *Scheduler {
	return &Scheduler{ds: ds, log: log, cron: cron.New()}
}

// Start registers the reminder job under the given cron spec and starts the
// scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.RunOnce(ctx, time.Now()); err != nil {
			s.log.Error("reminder run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling reminders: %w", err)
	}
	s.cron.Start()
	s.log.Info("reminder scheduler started", "spec", spec)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce emits a reminder for every user whose current plan schedules
// exercises on now's weekday. Returns the number of reminders emitted.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (int, error) {
	day := WeekdayKey(now.Weekday())

	userIDs, err := s.ds.UsersWithPlans(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing users: %w", err)
	}

	reminded := 0
	for _, userID := range userIDs {
		plan, err := s.ds.GetCurrentPlan(ctx, userID)
		if err != nil {
			s.log.Warn("loading plan for reminder", "user_id", userID, "error", err)
			continue
		}
		exercises, ok := plan.WeeklyPlan[day]
		if !ok || len(exercises) == 0 {
			continue
		}

		s.log.Info("workout reminder",
			"user_id", userID,
			"day", day,
			"exercises", len(exercises),
			"plan_version", plan.Version)
		reminded++
	}
	return reminded, nil
}

// WeekdayKey maps a time.Weekday to the canonical plan day key.
func WeekdayKey(wd time.Weekday) string {
	// models.Weekdays is Monday-first; time.Weekday is Sunday-based.
	return models.Weekdays[(int(wd)+6)%7]
}
