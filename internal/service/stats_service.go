package service

import (
	"context"
	"math"
	"time"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

// LogStore is the read surface over the append-only task log.
type LogStore interface {
	CountByAction(ctx context.Context, userID int64, action string) (int64, error)
	DoneDays(ctx context.Context, userID int64) ([]string, error)
	Completed(ctx context.Context, userID int64, since time.Time) ([]repository.CompletedTask, error)
}

// Stats summarizes a user's discipline derived from the log.
type Stats struct {
	Done       int64
	Missed     int64
	ActiveDays int
	Streak     int
}

// StatsService computes completion statistics from the task log.
type StatsService struct {
	logs LogStore
}

func NewStatsService(logs LogStore) *StatsService {
	return &StatsService{logs: logs}
}

// UserStats counts done/missed entries, distinct completion days, and the
// run of consecutive days with completions. The walk starts at now's
// date, so the streak is 0 until something is completed today.
func (s *StatsService) UserStats(ctx context.Context, userID int64, now time.Time) (Stats, error) {
	done, err := s.logs.CountByAction(ctx, userID, model.ActionDone)
	if err != nil {
		return Stats{}, err
	}
	missed, err := s.logs.CountByAction(ctx, userID, model.ActionMissed)
	if err != nil {
		return Stats{}, err
	}
	days, err := s.logs.DoneDays(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	active := make(map[string]struct{}, len(days))
	for _, day := range days {
		active[day] = struct{}{}
	}

	streak := 0
	for {
		day := now.AddDate(0, 0, -streak).Format(model.DateLayout)
		if _, ok := active[day]; !ok {
			break
		}
		streak++
	}

	return Stats{Done: done, Missed: missed, ActiveDays: len(days), Streak: streak}, nil
}

// Completed lists every completed task, newest first.
func (s *StatsService) Completed(ctx context.Context, userID int64) ([]repository.CompletedTask, error) {
	return s.logs.Completed(ctx, userID, time.Time{})
}

// CompletedLastWeek lists completions of the past 7 days, newest first.
func (s *StatsService) CompletedLastWeek(ctx context.Context, userID int64, now time.Time) ([]repository.CompletedTask, error) {
	return s.logs.Completed(ctx, userID, now.AddDate(0, 0, -7))
}

// Percent is the rounded completion share, 0 when nothing was logged yet.
func Percent(done, missed int64) int {
	total := done + missed
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
