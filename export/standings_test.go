// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/dcon-scoreboard/models"
)

func TestStandingsWorkbook(t *testing.T) {
	churches := []models.ChurchStanding{
		{Rank: 1, ID: 1, Name: "St. Mark", Slug: "st-mark", LeaderboardScore: 35, TotalScore: 35, MembersTotal: 2},
		{Rank: 2, ID: 2, Name: "St. George", Slug: "st-george", LeaderboardScore: 0, TotalScore: 0, MembersTotal: 0},
	}
	members := []models.Member{
		{ID: 2, Name: "Bob", ChurchID: 1, ChurchName: "St. Mark", Score: 25},
		{ID: 1, Name: "Alice", ChurchID: 1, ChurchName: "St. Mark", Score: 10},
	}

	var buf bytes.Buffer
	if err := Write(&buf, churches, members); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != ChurchSheet || got[1] != MemberSheet {
		t.Fatalf("unexpected sheets: %v", got)
	}

	rows, err := f.GetRows(ChurchSheet)
	if err != nil {
		t.Fatalf("GetRows(churches) error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 church rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Rank,Church,Slug,Score,Members" {
		t.Errorf("unexpected church header: %v", rows[0])
	}
	if strings.Join(rows[1], ",") != "1,St. Mark,st-mark,35,2" {
		t.Errorf("unexpected first church row: %v", rows[1])
	}

	rows, err = f.GetRows(MemberSheet)
	if err != nil {
		t.Fatalf("GetRows(members) error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 member rows, got %d", len(rows))
	}
	if strings.Join(rows[1], ",") != "1,Bob,St. Mark,25" {
		t.Errorf("member order should be preserved, got %v", rows[1])
	}
}

func TestStandingsWorkbook_Empty(t *testing.T) {
	f, err := StandingsWorkbook(nil, nil)
	if err != nil {
		t.Fatalf("StandingsWorkbook() error = %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(MemberSheet)
	if len(rows) != 1 {
		t.Errorf("expected only the header row, got %d rows", len(rows))
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 2, 11, 18, 30, 0, 0, time.UTC)
	if got := Filename(ts); got != "standings-20260211-1830.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}
