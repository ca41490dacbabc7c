// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/testutil"
)

var (
	scheduleStart = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	scheduleEnd   = scheduleStart.Add(90 * time.Minute)
)

// createTestEvent creates an event through the handler and returns it
func createTestEvent(t *testing.T, handler *ScheduleHandler, title string, day int, subs []models.SubEventInput) models.ScheduleEvent {
	t.Helper()

	req := models.ScheduleEventRequest{
		Title:     title,
		StartTime: scheduleStart,
		EndTime:   scheduleEnd,
		Location:  "Main Hall",
		Day:       day,
	}
	if subs != nil {
		req.SubEvents = &subs
	}

	w := httptest.NewRecorder()
	handler.Create(w, testutil.MakeRequest("POST", "/schedule/manage/", req, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var ev models.ScheduleEvent
	testutil.AssertJSON(t, w, &ev)
	return ev
}

func subEventTitles(ev models.ScheduleEvent) []string {
	titles := make([]string, len(ev.SubEvents))
	for i, se := range ev.SubEvents {
		titles[i] = se.Title
	}
	return titles
}

func TestCreateScheduleEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewScheduleHandler(db)

	ev := createTestEvent(t, handler, "Workshops", 0, []models.SubEventInput{
		{Title: "Prayer", SpeakerName: "Fr. Daniel"},
		{Title: "Bible Study", Location: "Room 2"},
		{Title: "Art", SpeakerImage: "https://example.com/art.png"},
	})

	if ev.Day != 1 {
		t.Errorf("Expected day to default to 1, got %d", ev.Day)
	}
	got := subEventTitles(ev)
	want := []string{"Prayer", "Bible Study", "Art"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d sub-events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sub_events[%d] = %q, want %q", i, got[i], want[i])
		}
		if ev.SubEvents[i].ScheduleEventID != ev.ID {
			t.Errorf("sub_events[%d] not attached to event %d", i, ev.ID)
		}
	}
}

func TestCreateScheduleEvent_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewScheduleHandler(db)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "end before start",
			body:      `{"title":"Late","start_time":"2026-02-10T10:00:00Z","end_time":"2026-02-10T09:00:00Z"}`,
			wantField: "end_time",
		},
		{
			name:      "missing title",
			body:      `{"start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T10:00:00Z"}`,
			wantField: "title",
		},
		{
			name:      "missing start",
			body:      `{"title":"No start","end_time":"2026-02-10T10:00:00Z"}`,
			wantField: "start_time",
		},
		{
			name:      "negative day",
			body:      `{"title":"Neg","start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T10:00:00Z","day":-1}`,
			wantField: "day",
		},
		{
			name:      "sub-event without title",
			body:      `{"title":"X","start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T10:00:00Z","sub_events":[{"title":"ok"},{"location":"Room"}]}`,
			wantField: "sub_events[1].title",
		},
		{
			name:      "speaker image not a URL",
			body:      `{"title":"X","start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T10:00:00Z","sub_events":[{"title":"ok","speaker_image":"nope"}]}`,
			wantField: "sub_events[0].speaker_image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/schedule/manage/", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if _, ok := resp.Fields[tt.wantField]; !ok {
				t.Errorf("Expected field error on %q, got %v", tt.wantField, resp.Fields)
			}
		})
	}

	if n := testutil.CountRows(t, db, "schedule_event"); n != 0 {
		t.Errorf("Expected no events, got %d", n)
	}
}

func TestUpdateScheduleEvent_SubEventReplacement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewScheduleHandler(db)

	ev := createTestEvent(t, handler, "Workshops", 1, []models.SubEventInput{
		{Title: "Prayer"},
		{Title: "Bible Study"},
	})
	id := strconv.FormatInt(ev.ID, 10)
	oldIDs := map[int64]bool{}
	for _, se := range ev.SubEvents {
		oldIDs[se.ID] = true
	}

	put := func(t *testing.T, body string) models.ScheduleEvent {
		t.Helper()
		req := httptest.NewRequest("PUT", "/schedule/manage/"+id+"/", bytes.NewBufferString(body))
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.Replace(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var got models.ScheduleEvent
		testutil.AssertJSON(t, w, &got)
		return got
	}

	t.Run("omitted list keeps sub-events", func(t *testing.T) {
		got := put(t, `{"title":"Workshops (renamed)","start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T11:00:00Z"}`)
		if got.Title != "Workshops (renamed)" {
			t.Errorf("Expected renamed title, got %q", got.Title)
		}
		if len(got.SubEvents) != 2 {
			t.Fatalf("Expected 2 untouched sub-events, got %d", len(got.SubEvents))
		}
		for _, se := range got.SubEvents {
			if !oldIDs[se.ID] {
				t.Errorf("Sub-event %d was recreated", se.ID)
			}
		}
	})

	t.Run("full replace ignores client ids", func(t *testing.T) {
		got := put(t, `{"title":"Workshops","start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T11:00:00Z",
			"sub_events":[{"id":1,"title":"Art"},{"title":"Music"},{"title":"Drama"}]}`)

		want := []string{"Art", "Music", "Drama"}
		titles := subEventTitles(got)
		if len(titles) != len(want) {
			t.Fatalf("Expected %d sub-events, got %d", len(want), len(titles))
		}
		for i := range want {
			if titles[i] != want[i] {
				t.Errorf("sub_events[%d] = %q, want %q", i, titles[i], want[i])
			}
			if oldIDs[got.SubEvents[i].ID] {
				t.Errorf("sub_events[%d] reused id %d", i, got.SubEvents[i].ID)
			}
		}
		if n := testutil.CountRows(t, db, "sub_event"); n != 3 {
			t.Errorf("Expected 3 sub-event rows, got %d", n)
		}
	})

	t.Run("empty list clears sub-events", func(t *testing.T) {
		got := put(t, `{"title":"Workshops","start_time":"2026-02-10T09:00:00Z","end_time":"2026-02-10T11:00:00Z","sub_events":[]}`)
		if len(got.SubEvents) != 0 {
			t.Errorf("Expected no sub-events, got %d", len(got.SubEvents))
		}
		if got.SubEvents == nil {
			t.Error("Expected sub_events to encode as [] rather than null")
		}
		if n := testutil.CountRows(t, db, "sub_event"); n != 0 {
			t.Errorf("Expected 0 sub-event rows, got %d", n)
		}
	})
}

func TestPatchScheduleEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewScheduleHandler(db)

	ev := createTestEvent(t, handler, "Opening", 2, []models.SubEventInput{{Title: "Welcome"}})
	id := strconv.FormatInt(ev.ID, 10)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PATCH", "/schedule/manage/"+id+"/", bytes.NewBufferString(body))
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.Patch(w, req)
		return w
	}

	t.Run("toggle is_done only", func(t *testing.T) {
		w := patch(`{"is_done": true}`)
		testutil.AssertStatus(t, w, http.StatusOK)

		var got models.ScheduleEvent
		testutil.AssertJSON(t, w, &got)
		if !got.IsDone {
			t.Error("Expected is_done to be true")
		}
		if got.Title != "Opening" || got.Day != 2 || got.Location != "Main Hall" {
			t.Errorf("Expected other fields untouched, got %+v", got)
		}
		if len(got.SubEvents) != 1 {
			t.Errorf("Expected sub-events untouched, got %d", len(got.SubEvents))
		}
	})

	t.Run("end before existing start", func(t *testing.T) {
		w := patch(`{"end_time": "2026-02-10T08:00:00Z"}`)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("empty title", func(t *testing.T) {
		w := patch(`{"title": ""}`)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown event", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/schedule/manage/9999/", bytes.NewBufferString(`{"is_done": true}`))
		req.SetPathValue("id", "9999")
		w := httptest.NewRecorder()
		handler.Patch(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestListSchedule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewScheduleHandler(db)

	createTestEvent(t, handler, "Day two", 2, nil)
	createTestEvent(t, handler, "Day one", 1, []models.SubEventInput{{Title: "A"}, {Title: "B"}})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
	}{
		{"all days", "", http.StatusOK, []string{"Day one", "Day two"}},
		{"day filter", "?day=2", http.StatusOK, []string{"Day two"}},
		{"empty day", "?day=5", http.StatusOK, []string{}},
		{"bad day", "?day=zero", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest("GET", "/schedule/"+tt.query, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantTitles == nil {
				return
			}

			var events []models.ScheduleEvent
			testutil.AssertJSON(t, w, &events)
			if len(events) != len(tt.wantTitles) {
				t.Fatalf("Expected %d events, got %d", len(tt.wantTitles), len(events))
			}
			for i, ev := range events {
				if ev.Title != tt.wantTitles[i] {
					t.Errorf("events[%d] = %q, want %q", i, ev.Title, tt.wantTitles[i])
				}
				if ev.SubEvents == nil {
					t.Errorf("events[%d].sub_events is null", i)
				}
			}
		})
	}
}

func TestDeleteScheduleEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewScheduleHandler(db)

	ev := createTestEvent(t, handler, "Closing", 3, []models.SubEventInput{{Title: "Farewell"}})
	id := strconv.FormatInt(ev.ID, 10)

	req := httptest.NewRequest("DELETE", "/schedule/manage/"+id+"/", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handler.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	if n := testutil.CountRows(t, db, "sub_event"); n != 0 {
		t.Errorf("Expected 0 sub-events, got %d", n)
	}

	req = httptest.NewRequest("GET", "/schedule/"+id+"/", nil)
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	handler.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
