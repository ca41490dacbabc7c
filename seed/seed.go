// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package seed loads the event schedule and the bootstrap superuser.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/auth"
	"github.com/danielhkuo/dcon-scoreboard/cliparse"
	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

// DayStartHour is the local hour at which an event day begins. Sessions
// starting earlier belong to the night of the previous day.
const DayStartHour = 8

//go:embed schedule.json
var scheduleJSON []byte

// Entry is one row of the bundled schedule. Times are local wall-clock
// "HH:MM" values.
type Entry struct {
	Day       int                    `json:"day"`
	Title     string                 `json:"title"`
	Start     string                 `json:"start"`
	End       string                 `json:"end"`
	Location  string                 `json:"location"`
	SubEvents []models.SubEventInput `json:"sub_events"`
}

// Entries returns the bundled schedule.
func Entries() ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(scheduleJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse bundled schedule: %w", err)
	}
	return entries, nil
}

// EventTimes resolves an entry's wall-clock times to instants. Day 1 is
// firstDay; a day 1 entry that starts before DayStartHour belongs to the
// night after arrival and runs on the next calendar day. Later days are
// taken at face value. An end earlier than the start wraps past midnight.
func EventTimes(e Entry, firstDay time.Time, loc *time.Location) (start, end time.Time, err error) {
	if e.Day < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%q: day must be at least 1", e.Title)
	}
	sh, sm, err := parseClock(e.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%q start: %w", e.Title, err)
	}
	eh, em, err := parseClock(e.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%q end: %w", e.Title, err)
	}

	y, m, d := firstDay.Date()
	d += e.Day - 1
	if e.Day == 1 && sh < DayStartHour {
		d++
	}

	start = time.Date(y, m, d, sh, sm, 0, 0, loc)
	end = time.Date(y, m, d, eh, em, 0, 0, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// Plan turns the bundled schedule into create requests for the configured
// event dates and timezone.
func Plan(cfg cliparse.Config) ([]models.ScheduleEventPatch, error) {
	loc, err := time.LoadLocation(cfg.EventTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid event timezone: %w", err)
	}
	firstDay, err := time.ParseInLocation(time.DateOnly, cfg.EventStartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid event start date: %w", err)
	}

	entries, err := Entries()
	if err != nil {
		return nil, err
	}

	plan := make([]models.ScheduleEventPatch, 0, len(entries))
	for _, e := range entries {
		start, end, err := EventTimes(e, firstDay, loc)
		if err != nil {
			return nil, err
		}
		subs := e.SubEvents
		if subs == nil {
			subs = []models.SubEventInput{}
		}
		req := models.ScheduleEventRequest{
			Title:     e.Title,
			StartTime: start,
			EndTime:   end,
			Location:  e.Location,
			Day:       e.Day,
			SubEvents: &subs,
		}
		plan = append(plan, req.Patch())
	}
	return plan, nil
}

// Result reports what SeedSchedule changed.
type Result struct {
	Deleted int64
	Created int
}

// SeedSchedule creates the bundled schedule. With clear set, every existing
// event is removed first.
func SeedSchedule(ctx context.Context, st *store.Store, cfg cliparse.Config, clear bool) (Result, error) {
	var res Result

	plan, err := Plan(cfg)
	if err != nil {
		return res, err
	}

	if clear {
		res.Deleted, err = st.DeleteSchedule(ctx)
		if err != nil {
			return res, fmt.Errorf("failed to clear schedule: %w", err)
		}
		zap.L().Warn("deleted existing schedule events", zap.Int64("count", res.Deleted))
	}

	for _, p := range plan {
		ev, err := st.CreateScheduleEvent(ctx, p)
		if err != nil {
			return res, fmt.Errorf("failed to create %q: %w", *p.Title, err)
		}
		res.Created++
		zap.L().Debug("seeded schedule event",
			zap.Int64("event_id", ev.ID),
			zap.Int("day", ev.Day),
			zap.Time("start", ev.StartTime),
		)
	}

	zap.L().Info("schedule seeded", zap.Int("created", res.Created))
	return res, nil
}

// ErrBootstrapIncomplete is returned when only part of the bootstrap
// credentials is configured.
var ErrBootstrapIncomplete = errors.New("bootstrap admin needs both username and password")

// EnsureSuperuser creates the configured superuser when no account exists
// yet. It reports whether an account was created.
func EnsureSuperuser(ctx context.Context, st *store.Store, cfg cliparse.Config) (bool, error) {
	if cfg.BootstrapUsername == "" && cfg.BootstrapPassword == "" {
		return false, nil
	}
	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" {
		return false, ErrBootstrapIncomplete
	}

	n, err := st.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	if err := auth.ValidatePassword(cfg.BootstrapPassword, cfg.BootstrapUsername); err != nil {
		return false, fmt.Errorf("bootstrap admin password rejected: %w", err)
	}
	hash, err := auth.HashPassword(cfg.BootstrapPassword)
	if err != nil {
		return false, err
	}

	u, err := st.CreateUser(ctx, cfg.BootstrapUsername, cfg.BootstrapEmail, hash, models.RoleSuperuser)
	if errors.Is(err, store.ErrConflict) {
		// Another instance won the race
		return false, nil
	}
	if err != nil {
		return false, err
	}

	zap.L().Info("bootstrap superuser created", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return true, nil
}
