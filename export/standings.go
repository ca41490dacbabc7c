// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package export renders leaderboard standings as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/dcon-scoreboard/models"
)

const (
	ChurchSheet = "Churches"
	MemberSheet = "Members"
)

// StandingsWorkbook builds a workbook with one sheet ranking churches and
// one ranking members. Rows keep the order they are given in.
func StandingsWorkbook(churches []models.ChurchStanding, members []models.Member) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ChurchSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	churchRows := make([][]any, len(churches))
	for i, c := range churches {
		churchRows[i] = []any{c.Rank, c.Name, c.Slug, c.LeaderboardScore, c.MembersTotal}
	}
	if err := writeSheet(f, ChurchSheet, []string{"Rank", "Church", "Slug", "Score", "Members"}, churchRows); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(MemberSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	memberRows := make([][]any, len(members))
	for i, m := range members {
		memberRows[i] = []any{i + 1, m.Name, m.ChurchName, m.Score}
	}
	if err := writeSheet(f, MemberSheet, []string{"Rank", "Member", "Church", "Score"}, memberRows); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, churches []models.ChurchStanding, members []models.Member) error {
	f, err := StandingsWorkbook(churches, members)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Filename returns the download name for a standings export taken at t.
func Filename(t time.Time) string {
	return "standings-" + t.UTC().Format("20060102-1504") + ".xlsx"
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	widths := make([]int, len(header))
	for c, h := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		widths[c] = utf8.RuneCountInString(h) + 2
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
			if s, ok := v.(string); ok && utf8.RuneCountInString(s)+2 > widths[c] {
				widths[c] = utf8.RuneCountInString(s) + 2
			}
		}
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", lastHeader, style)
	}
	if err := f.AutoFilter(sheet, "A1:"+lastHeader, nil); err != nil {
		return fmt.Errorf("set filter: %w", err)
	}

	for c, w := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(sheet, col, col, float64(min(w, 60)))
	}
	return nil
}
