// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "St. Mark", "st-mark"},
		{"diacritics", "Sainte Thérèse", "sainte-therese"},
		{"collapses separators", "  St   George -- Sporting ", "st-george-sporting"},
		{"digits kept", "Church 42", "church-42"},
		{"non latin dropped", "كنيسة", ""},
		{"long name cut at word", "The Coptic Orthodox Church of Saint Mark and Pope Peter the Seal of Martyrs", "the-coptic-orthodox-church-of-saint-mark-and-pope"},
		{"long single word cut hard", strings.Repeat("a", 60), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) > MaxSlugLength {
				t.Errorf("Slugify(%q) is %d bytes, longer than %d", tt.in, len(got), MaxSlugLength)
			}
		})
	}
}

func TestIsSlug(t *testing.T) {
	valid := []string{"st-mark", "a", "church-42"}
	invalid := []string{"", "St-Mark", "st--mark", "-st", "st mark", "st_mark"}

	for _, s := range valid {
		if !IsSlug(s) {
			t.Errorf("IsSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsSlug(s) {
			t.Errorf("IsSlug(%q) = true, want false", s)
		}
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		role    Role
		valid   bool
		isAdmin bool
	}{
		{RoleMember, true, false},
		{RoleAdmin, true, true},
		{RoleSuperuser, true, true},
		{Role("owner"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if tt.role.Valid() != tt.valid {
				t.Errorf("Valid() = %v, want %v", tt.role.Valid(), tt.valid)
			}
			if tt.role.IsAdmin() != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", tt.role.IsAdmin(), tt.isAdmin)
			}
		})
	}
}

func TestScheduleEventRequestPatch(t *testing.T) {
	req := ScheduleEventRequest{Title: "Talks"}
	p := req.Patch()

	if p.Day == nil || *p.Day != 1 {
		t.Errorf("expected omitted day to default to 1, got %v", p.Day)
	}
	if p.SubEvents != nil {
		t.Error("expected omitted sub_events to stay nil")
	}

	ev := ScheduleEvent{Title: "old", IsDone: true, Day: 2}
	done := false
	ScheduleEventPatch{IsDone: &done}.Apply(&ev)
	if ev.IsDone || ev.Title != "old" || ev.Day != 2 {
		t.Errorf("partial apply touched unrelated fields: %+v", ev)
	}
}

func TestNewUserInfo(t *testing.T) {
	info := NewUserInfo(User{ID: 1, Username: "root", Role: RoleSuperuser})
	if !info.IsAdmin || !info.IsSuperuser {
		t.Errorf("superuser should report is_admin and is_superuser: %+v", info)
	}
	if info.DateJoined != "" {
		t.Errorf("zero date_joined should be omitted, got %q", info.DateJoined)
	}

	info = NewUserInfo(User{ID: 2, Username: "alice", Role: RoleMember})
	if info.IsAdmin || info.IsSuperuser {
		t.Errorf("member should not report admin flags: %+v", info)
	}
}
