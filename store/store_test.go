// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/testutil"
)

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return New(db), func() { db.Close() }
}

func TestChurchTotalScore(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	c, err := s.CreateChurch(ctx, "St. Mark", "", "")
	if err != nil {
		t.Fatalf("CreateChurch() error = %v", err)
	}
	if c.Slug != "st-mark" {
		t.Errorf("Expected derived slug st-mark, got %q", c.Slug)
	}

	total, err := s.ChurchTotalScore(ctx, c.ID)
	if err != nil || total != 0 {
		t.Errorf("ChurchTotalScore() on empty church = %d, %v; want 0, nil", total, err)
	}

	for _, score := range []int64{10, 25, -4} {
		if _, err := s.CreateMember(ctx, "m", c.ID, score); err != nil {
			t.Fatalf("CreateMember() error = %v", err)
		}
	}

	total, err = s.ChurchTotalScore(ctx, c.ID)
	if err != nil || total != 31 {
		t.Errorf("ChurchTotalScore() = %d, %v; want 31, nil", total, err)
	}

	if _, err := s.ChurchTotalScore(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown church, got %v", err)
	}
}

func TestCreateChurch_Errors(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := s.CreateChurch(ctx, "St. Mark", "st-mark", ""); err != nil {
		t.Fatalf("CreateChurch() error = %v", err)
	}

	_, err := s.CreateChurch(ctx, "Other", "st-mark", "")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate slug, got %v", err)
	}

	_, err = s.CreateChurch(ctx, "   ", "", "")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "name" || !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected name FieldError, got %v", err)
	}

	// Nothing left after folding
	_, err = s.CreateChurch(ctx, "!!!", "", "")
	if !errors.As(err, &fe) || fe.Field != "slug" {
		t.Errorf("Expected slug FieldError, got %v", err)
	}

	_, err = s.CreateChurch(ctx, "Long", strings.Repeat("a", models.MaxSlugLength+1), "")
	if !errors.As(err, &fe) || fe.Field != "slug" || fe.Msg != "max" {
		t.Errorf("Expected slug max FieldError, got %v", err)
	}
}

func TestCreateMember_InvalidReference(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()

	_, err := s.CreateMember(context.Background(), "Ghost", 9999, 0)

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FieldError, got %v", err)
	}
	if fe.Field != "church" {
		t.Errorf("Expected field church, got %q", fe.Field)
	}
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected ErrInvalidReference, got %v", err)
	}
}

func TestAdjustScore_AllOrNothing(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	c, _ := s.CreateChurch(ctx, "St. Mark", "st-mark", "")
	m, err := s.CreateMember(ctx, "Alice", c.ID, 10)
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	t.Run("applies delta and logs it", func(t *testing.T) {
		member, txn, err := s.AdjustScore(ctx, m.ID, -5, "penalty")
		if err != nil {
			t.Fatalf("AdjustScore() error = %v", err)
		}
		if member.Score != 5 || member.ChurchName != "St. Mark" {
			t.Errorf("Unexpected member: %+v", member)
		}
		if txn.ID == 0 || txn.Points != -5 || txn.Reason != "penalty" || txn.Timestamp.IsZero() {
			t.Errorf("Unexpected transaction: %+v", txn)
		}
		if txn.MemberID == nil || *txn.MemberID != m.ID || txn.ChurchID != nil {
			t.Errorf("Transaction should target member %d only: %+v", m.ID, txn)
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		_, _, err := s.AdjustScore(ctx, 9999, 5, "bonus")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("blank reason", func(t *testing.T) {
		_, _, err := s.AdjustScore(ctx, m.ID, 5, "  ")
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("Expected ErrInvalid, got %v", err)
		}
	})

	t.Run("overflow rolls back", func(t *testing.T) {
		_, _, err := s.AdjustScore(ctx, m.ID, math.MaxInt64, "too much")
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "points" {
			t.Errorf("Expected points FieldError, got %v", err)
		}
	})

	// The UPDATE succeeds here; the INSERT then fails on the reason column.
	t.Run("failed log insert rolls back score", func(t *testing.T) {
		_, _, err := s.AdjustScore(ctx, m.ID, 100, strings.Repeat("r", 300))
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("Expected ErrInvalid, got %v", err)
		}
		got, err := s.GetMember(ctx, m.ID)
		if err != nil {
			t.Fatalf("GetMember() error = %v", err)
		}
		if got.Score != 5 {
			t.Errorf("Expected score to stay 5, got %d", got.Score)
		}
	})

	got, err := s.GetMember(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if got.Score != 5 {
		t.Errorf("Expected score 5 after failed adjustments, got %d", got.Score)
	}

	txns, err := s.ListMemberTransactions(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListMemberTransactions() error = %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("Expected exactly 1 transaction, got %d", len(txns))
	}
}

func TestDeleteChurch_ConcurrentAdjustments(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	c, _ := s.CreateChurch(ctx, "St. Mark", "st-mark", "")
	var memberIDs []int64
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		m, err := s.CreateMember(ctx, name, c.ID, 0)
		if err != nil {
			t.Fatalf("CreateMember() error = %v", err)
		}
		memberIDs = append(memberIDs, m.ID)
	}

	var wg sync.WaitGroup
	adjustErrs := make(chan error, 30)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _, err := s.AdjustScore(ctx, memberIDs[idx%len(memberIDs)], 1, "race")
			if err != nil && !errors.Is(err, ErrNotFound) {
				adjustErrs <- err
			}
		}(i)
	}

	deleteErr := s.DeleteChurch(ctx, c.ID)
	wg.Wait()
	close(adjustErrs)

	if deleteErr != nil {
		t.Fatalf("DeleteChurch() error = %v", deleteErr)
	}
	for err := range adjustErrs {
		t.Errorf("AdjustScore() unexpected error = %v", err)
	}

	var left int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM member WHERE church_id = $1`, c.ID).Scan(&left); err != nil || left != 0 {
		t.Errorf("Expected no members left, got %d (%v)", left, err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM score_transaction`).Scan(&left); err != nil || left != 0 {
		t.Errorf("Expected no transactions left, got %d (%v)", left, err)
	}
}

func TestScoreEqualsInitialPlusDeltas(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	c, _ := s.CreateChurch(ctx, "St. Mark", "st-mark", "")
	m, _ := s.CreateMember(ctx, "Alice", c.ID, 7)

	deltas := []int64{3, -10, 42, 0, -1}
	var sum int64
	for _, d := range deltas {
		if _, _, err := s.AdjustScore(ctx, m.ID, d, "round"); err != nil {
			t.Fatalf("AdjustScore(%d) error = %v", d, err)
		}
		sum += d
	}

	got, _ := s.GetMember(ctx, m.ID)
	if got.Score != 7+sum {
		t.Errorf("Expected score %d, got %d", 7+sum, got.Score)
	}

	txns, _ := s.ListMemberTransactions(ctx, m.ID)
	if len(txns) != len(deltas) {
		t.Fatalf("Expected %d transactions, got %d", len(deltas), len(txns))
	}
	// Newest first
	for i, txn := range txns {
		if want := deltas[len(deltas)-1-i]; txn.Points != want {
			t.Errorf("txns[%d].Points = %d, want %d", i, txn.Points, want)
		}
	}

	total, _ := s.ChurchTotalScore(ctx, c.ID)
	if total != got.Score {
		t.Errorf("Church total %d does not match member score %d", total, got.Score)
	}
}

func TestChurchLeaderboard_Deterministic(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		if _, err := s.CreateChurch(ctx, name, "", ""); err != nil {
			t.Fatalf("CreateChurch() error = %v", err)
		}
	}

	first, err := s.ChurchLeaderboard(ctx)
	if err != nil {
		t.Fatalf("ChurchLeaderboard() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		again, _ := s.ChurchLeaderboard(ctx)
		for j := range first {
			if again[j].ID != first[j].ID {
				t.Fatalf("Leaderboard order changed between calls")
			}
		}
	}
	// All tied at zero: id order
	for i := 1; i < len(first); i++ {
		if first[i-1].ID > first[i].ID {
			t.Errorf("Expected ties broken by ascending id, got %d before %d", first[i-1].ID, first[i].ID)
		}
	}
}

func TestUpdateChurch_SlugImmutable(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	c, _ := s.CreateChurch(ctx, "St. Mark", "st-mark", "")

	_, err := s.UpdateChurch(ctx, c.ID, "St. Mark", "st-marcus", "")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "slug" {
		t.Errorf("Expected slug FieldError, got %v", err)
	}

	got, err := s.UpdateChurch(ctx, c.ID, "St. Mark Cathedral", "", "Downtown")
	if err != nil {
		t.Fatalf("UpdateChurch() error = %v", err)
	}
	if got.Slug != "st-mark" || got.Name != "St. Mark Cathedral" || got.Description != "Downtown" {
		t.Errorf("Unexpected church: %+v", got)
	}

	if _, err := s.UpdateChurch(ctx, 9999, "X", "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSchedule_SubEventsLoadedInOneQuery(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	mk := func(title string, day int, subs ...string) models.ScheduleEvent {
		t.Helper()
		inputs := make([]models.SubEventInput, len(subs))
		for i, st := range subs {
			inputs[i] = models.SubEventInput{Title: st}
		}
		req := models.ScheduleEventRequest{
			Title: title, StartTime: start, EndTime: start.Add(time.Hour), Day: day, SubEvents: &inputs,
		}
		ev, err := s.CreateScheduleEvent(ctx, req.Patch())
		if err != nil {
			t.Fatalf("CreateScheduleEvent() error = %v", err)
		}
		return ev
	}

	a := mk("Talks", 1, "Reading", "Programming", "Arts")
	b := mk("Workshops", 1, "Lab")
	mk("Closure", 2)

	events, err := s.ListSchedule(ctx, nil)
	if err != nil {
		t.Fatalf("ListSchedule() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if len(events[0].SubEvents) != 3 || events[0].ID != a.ID {
		t.Errorf("Expected Talks with 3 sub-events first, got %+v", events[0])
	}
	if len(events[1].SubEvents) != 1 || events[1].ID != b.ID {
		t.Errorf("Expected Workshops with 1 sub-event second, got %+v", events[1])
	}
	if len(events[2].SubEvents) != 0 {
		t.Errorf("Expected Closure with no sub-events, got %d", len(events[2].SubEvents))
	}

	day := 2
	events, _ = s.ListSchedule(ctx, &day)
	if len(events) != 1 || events[0].Title != "Closure" {
		t.Errorf("Expected only Closure on day 2, got %+v", events)
	}

	n, err := s.DeleteSchedule(ctx)
	if err != nil || n != 3 {
		t.Errorf("DeleteSchedule() = %d, %v; want 3, nil", n, err)
	}
}

func TestUpdateScheduleEvent_RollsBackOnBadSubEvent(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	subs := []models.SubEventInput{{Title: "Keep me"}}
	req := models.ScheduleEventRequest{Title: "Talks", StartTime: start, EndTime: start.Add(time.Hour), SubEvents: &subs}
	ev, err := s.CreateScheduleEvent(ctx, req.Patch())
	if err != nil {
		t.Fatalf("CreateScheduleEvent() error = %v", err)
	}

	title := "Renamed"
	bad := []models.SubEventInput{{Title: "ok"}, {Title: ""}}
	_, err = s.UpdateScheduleEvent(ctx, ev.ID, models.ScheduleEventPatch{Title: &title, SubEvents: &bad})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "sub_events[1].title" {
		t.Fatalf("Expected sub_events[1].title FieldError, got %v", err)
	}

	got, _ := s.GetScheduleEvent(ctx, ev.ID)
	if got.Title != "Talks" {
		t.Errorf("Expected title rollback, got %q", got.Title)
	}
	if len(got.SubEvents) != 1 || got.SubEvents[0].Title != "Keep me" {
		t.Errorf("Expected original sub-events after rollback, got %+v", got.SubEvents)
	}
}

func TestUsersAndTokenBlacklist(t *testing.T) {
	s, cleanup := newTestStore(t)
	defer cleanup()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice", "alice@example.com", "hash", models.RoleMember)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", "", "hash", models.RoleMember); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate username, got %v", err)
	}
	if _, err := s.CreateUser(ctx, "bob", "", "hash", models.Role("owner")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for unknown role, got %v", err)
	}

	promoted, err := s.SetUserRole(ctx, u.ID, models.RoleAdmin)
	if err != nil || promoted.Role != models.RoleAdmin {
		t.Errorf("SetUserRole() = %+v, %v", promoted, err)
	}
	if err := s.SetPasswordHash(ctx, 9999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	now := time.Now()
	if inserted, err := s.BlacklistToken(ctx, "live", u.ID, now.Add(time.Hour)); err != nil || !inserted {
		t.Fatalf("BlacklistToken() = %v, %v; want true, nil", inserted, err)
	}
	if inserted, err := s.BlacklistToken(ctx, "live", u.ID, now.Add(time.Hour)); err != nil || inserted {
		t.Fatalf("second BlacklistToken() = %v, %v; want false, nil", inserted, err)
	}
	if _, err := s.BlacklistToken(ctx, "stale", u.ID, now.Add(-time.Hour)); err != nil {
		t.Fatalf("BlacklistToken() error = %v", err)
	}

	for jti, want := range map[string]bool{"live": true, "stale": true, "never": false} {
		got, err := s.IsTokenBlacklisted(ctx, jti)
		if err != nil || got != want {
			t.Errorf("IsTokenBlacklisted(%q) = %v, %v; want %v", jti, got, err, want)
		}
	}

	n, err := s.PurgeExpiredTokens(ctx, now)
	if err != nil || n != 1 {
		t.Errorf("PurgeExpiredTokens() = %d, %v; want 1, nil", n, err)
	}

	count, _ := s.CountUsers(ctx)
	if count != 1 {
		t.Errorf("CountUsers() = %d, want 1", count)
	}
}
