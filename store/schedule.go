// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/danielhkuo/dcon-scoreboard/models"
)

const eventColumns = `id, title, start_time, end_time, location, description, day, is_done`

func scanEvent(row rowScanner) (models.ScheduleEvent, error) {
	var ev models.ScheduleEvent
	err := row.Scan(&ev.ID, &ev.Title, &ev.StartTime, &ev.EndTime, &ev.Location, &ev.Description, &ev.Day, &ev.IsDone)
	ev.SubEvents = []models.SubEvent{}
	return ev, err
}

// ListSchedule returns events ordered by day then start time, each with its
// sub-events. A non-nil day limits the listing to that day.
func (s *Store) ListSchedule(ctx context.Context, day *int) ([]models.ScheduleEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM schedule_event
		WHERE $1::integer IS NULL OR day = $1
		ORDER BY day ASC, start_time ASC, id ASC
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	events := []models.ScheduleEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachSubEvents(ctx, s.db, events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetScheduleEvent returns one event with its sub-events.
func (s *Store) GetScheduleEvent(ctx context.Context, id int64) (models.ScheduleEvent, error) {
	return getEvent(ctx, s.db, id, false)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEvent(ctx context.Context, q querier, id int64, forUpdate bool) (models.ScheduleEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM schedule_event WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	ev, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.ScheduleEvent{}, translate(err)
	}

	events := []models.ScheduleEvent{ev}
	if err := attachSubEvents(ctx, q, events); err != nil {
		return models.ScheduleEvent{}, err
	}
	return events[0], nil
}

// attachSubEvents loads sub-events for all events in one query.
func attachSubEvents(ctx context.Context, q querier, events []models.ScheduleEvent) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, len(events))
	index := make(map[int64]int, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
		index[ev.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, schedule_event_id, title, location, description,
		       speaker_name, speaker_bio, speaker_contact, speaker_image
		FROM sub_event
		WHERE schedule_event_id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query sub-events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var se models.SubEvent
		if err := rows.Scan(&se.ID, &se.ScheduleEventID, &se.Title, &se.Location, &se.Description,
			&se.SpeakerName, &se.SpeakerBio, &se.SpeakerContact, &se.SpeakerImage); err != nil {
			return fmt.Errorf("failed to scan sub-event: %w", err)
		}
		i := index[se.ScheduleEventID]
		events[i].SubEvents = append(events[i].SubEvents, se)
	}
	return rows.Err()
}

// CreateScheduleEvent inserts an event and its sub-events, keeping the
// given sub-event order.
func (s *Store) CreateScheduleEvent(ctx context.Context, p models.ScheduleEventPatch) (models.ScheduleEvent, error) {
	ev := models.ScheduleEvent{Day: 1}
	p.Apply(&ev)
	if err := validateEvent(ev); err != nil {
		return models.ScheduleEvent{}, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO schedule_event (title, start_time, end_time, location, description, day, is_done)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, ev.Title, ev.StartTime, ev.EndTime, ev.Location, ev.Description, ev.Day, ev.IsDone).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert schedule event: %w", translate(err))
		}

		if p.SubEvents != nil {
			return insertSubEvents(ctx, tx, id, *p.SubEvents)
		}
		return nil
	})
	if err != nil {
		return models.ScheduleEvent{}, err
	}

	return s.GetScheduleEvent(ctx, id)
}

// UpdateScheduleEvent applies a patch to an event. When the patch carries a
// sub-event list, every existing sub-event is deleted and the list inserted
// in its place; an empty list clears them. A nil list leaves them untouched.
func (s *Store) UpdateScheduleEvent(ctx context.Context, id int64, p models.ScheduleEventPatch) (models.ScheduleEvent, error) {
	var updated models.ScheduleEvent
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ev, err := getEvent(ctx, tx, id, true)
		if err != nil {
			return err
		}

		p.Apply(&ev)
		if err := validateEvent(ev); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE schedule_event
			SET title = $1, start_time = $2, end_time = $3, location = $4,
			    description = $5, day = $6, is_done = $7
			WHERE id = $8
		`, ev.Title, ev.StartTime, ev.EndTime, ev.Location, ev.Description, ev.Day, ev.IsDone, id)
		if err != nil {
			return fmt.Errorf("failed to update schedule event: %w", translate(err))
		}

		if p.SubEvents != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sub_event WHERE schedule_event_id = $1`, id); err != nil {
				return fmt.Errorf("failed to clear sub-events: %w", err)
			}
			if err := insertSubEvents(ctx, tx, id, *p.SubEvents); err != nil {
				return err
			}
		}

		updated, err = getEvent(ctx, tx, id, false)
		return err
	})
	if err != nil {
		return models.ScheduleEvent{}, err
	}
	return updated, nil
}

// DeleteScheduleEvent removes an event and its sub-events in one transaction.
func (s *Store) DeleteScheduleEvent(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT true FROM schedule_event WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			return translate(err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sub_event WHERE schedule_event_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete sub-events: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_event WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete schedule event: %w", err)
		}
		return nil
	})
}

// DeleteSchedule removes every event and sub-event. Used by schedule seeding.
func (s *Store) DeleteSchedule(ctx context.Context) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sub_event`); err != nil {
			return fmt.Errorf("failed to delete sub-events: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM schedule_event`)
		if err != nil {
			return fmt.Errorf("failed to delete schedule events: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// insertSubEvents inserts rows one at a time so ids follow list order.
func insertSubEvents(ctx context.Context, tx *sql.Tx, eventID int64, subs []models.SubEventInput) error {
	for i, se := range subs {
		if strings.TrimSpace(se.Title) == "" {
			return invalid(fmt.Sprintf("sub_events[%d].title", i), "required")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sub_event (schedule_event_id, title, location, description,
			                       speaker_name, speaker_bio, speaker_contact, speaker_image)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, eventID, se.Title, se.Location, se.Description,
			se.SpeakerName, se.SpeakerBio, se.SpeakerContact, se.SpeakerImage)
		if err != nil {
			return fmt.Errorf("failed to insert sub-event: %w", translate(err))
		}
	}
	return nil
}

func validateEvent(ev models.ScheduleEvent) error {
	switch {
	case strings.TrimSpace(ev.Title) == "":
		return invalid("title", "required")
	case ev.StartTime.IsZero():
		return invalid("start_time", "required")
	case ev.EndTime.IsZero():
		return invalid("end_time", "required")
	case ev.EndTime.Before(ev.StartTime):
		return invalid("end_time", "gtefield")
	case ev.Day < 1:
		return invalid("day", "gte")
	}
	return nil
}
