// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Role is the privilege level of a user account
type Role string

const (
	RoleMember    Role = "member"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperuser:
		return true
	}
	return false
}

// IsAdmin reports whether r may perform admin-write operations.
// Superusers are admins as well.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperuser
}

// Domain types

type Church struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	TotalScore  int64  `json:"total_score"`
	MemberCount int    `json:"member_count"`
}

type ChurchDetail struct {
	Church
	Members []Member `json:"members"`
}

type Member struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ChurchID   int64  `json:"church"`
	ChurchName string `json:"church_name"`
	Score      int64  `json:"score"`
}

// ScoreTransaction is an immutable audit row. ChurchID is only ever set on
// rows written by the legacy church-level scoring flow.
type ScoreTransaction struct {
	ID        int64     `json:"id"`
	MemberID  *int64    `json:"member"`
	ChurchID  *int64    `json:"church"`
	Points    int64     `json:"points"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type ScheduleEvent struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Day         int        `json:"day"`
	IsDone      bool       `json:"is_done"`
	SubEvents   []SubEvent `json:"sub_events"`
}

type SubEvent struct {
	ID              int64  `json:"id"`
	ScheduleEventID int64  `json:"schedule_event"`
	Title           string `json:"title"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	SpeakerName     string `json:"speaker_name"`
	SpeakerBio      string `json:"speaker_bio"`
	SpeakerContact  string `json:"speaker_contact"`
	SpeakerImage    string `json:"speaker_image"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	DateJoined   time.Time `json:"date_joined"`
}

// Leaderboard types

// ChurchStanding is one row of the church leaderboard.
// TotalScore mirrors LeaderboardScore for clients that read the church shape.
type ChurchStanding struct {
	Rank             int    `json:"rank"` // 1-indexed position
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	LeaderboardScore int64  `json:"leaderboard_score"`
	TotalScore       int64  `json:"total_score"`
	MembersTotal     int    `json:"members_total"`
}

// Error response

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
