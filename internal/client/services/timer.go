package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activitylogs"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/timers"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

// TimerService runs the stopwatch that turns elapsed time into an activity log.
type TimerService struct {
	timers timers.Repository
	logs   activitylogs.Repository
	loc    *time.Location
	now    func() time.Time
}

func NewTimerService(t timers.Repository, logs activitylogs.Repository) *TimerService {
	return &TimerService{timers: t, logs: logs, loc: time.Local, now: time.Now}
}

// Start begins timing activityID. It returns timers.ErrTimerRunning when a
// timer is already active.
func (s *TimerService) Start(ctx context.Context, activityID string, kindID *string) (*models.ActiveTimer, error) {
	t := models.ActiveTimer{ActivityID: activityID, ActivityKindID: kindID, StartTime: s.now().UTC()}
	if err := s.timers.Start(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Current returns the running timer, or nil.
func (s *TimerService) Current(ctx context.Context) (*models.ActiveTimer, error) {
	return s.timers.Current(ctx)
}

// Stop ends the running timer and records an activity log dated on the day
// the timer started, with the elapsed minutes as quantity. If the log cannot
// be written the timer is put back.
func (s *TimerService) Stop(ctx context.Context, comment string) (*models.ActivityLog, error) {
	t, err := s.timers.Take(ctx)
	if err != nil {
		return nil, err
	}

	log, err := s.logs.Create(ctx, models.ActivityLogInput{
		ActivityID:     t.ActivityID,
		ActivityKindID: t.ActivityKindID,
		Date:           timex.Date(t.StartTime.In(s.loc)),
		Quantity:       elapsedMinutes(t.StartTime, s.now()),
		Comment:        comment,
	})
	if err != nil {
		if rerr := s.timers.Start(ctx, *t); rerr != nil {
			return nil, errors.Join(fmt.Errorf("failed to record timer: %w", err), rerr)
		}
		return nil, fmt.Errorf("failed to record timer: %w", err)
	}
	return log, nil
}

// elapsedMinutes rounds to two decimals and never goes below zero, which a
// clock moved backwards could otherwise produce.
func elapsedMinutes(start, end time.Time) float64 {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return math.Round(d.Minutes()*100) / 100
}
