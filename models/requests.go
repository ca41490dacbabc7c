// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type ChurchRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=50,slug"`
	Description string `json:"description"`
}

// MemberRequest is used for both create and full update.
// A nil Score means "0" on create and "keep" on update.
type MemberRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	ChurchID int64  `json:"church" validate:"required,gt=0"`
	Score    *int64 `json:"score"`
}

type AdjustScoreRequest struct {
	MemberID int64  `json:"member_id" validate:"required,gt=0"`
	Points   *int64 `json:"points" validate:"required"`
	Reason   string `json:"reason" validate:"required,max=255"`
}

// SubEventInput never carries an id: replacement rows are always new.
type SubEventInput struct {
	Title          string `json:"title" validate:"required,max=200"`
	Location       string `json:"location" validate:"max=100"`
	Description    string `json:"description"`
	SpeakerName    string `json:"speaker_name" validate:"max=200"`
	SpeakerBio     string `json:"speaker_bio"`
	SpeakerContact string `json:"speaker_contact" validate:"max=200"`
	SpeakerImage   string `json:"speaker_image" validate:"omitempty,url,max=500"`
}

// ScheduleEventRequest is the body of POST and PUT. SubEvents distinguishes
// an omitted list (nil) from an explicit empty one.
type ScheduleEventRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	StartTime   time.Time        `json:"start_time" validate:"required"`
	EndTime     time.Time        `json:"end_time" validate:"required,gtefield=StartTime"`
	Location    string           `json:"location" validate:"max=100"`
	Description string           `json:"description"`
	Day         int              `json:"day" validate:"gte=0"`
	IsDone      bool             `json:"is_done"`
	SubEvents   *[]SubEventInput `json:"sub_events" validate:"omitempty,dive"`
}

// ScheduleEventPatch is the body of PATCH; nil fields are left untouched.
type ScheduleEventPatch struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	StartTime   *time.Time       `json:"start_time"`
	EndTime     *time.Time       `json:"end_time"`
	Location    *string          `json:"location" validate:"omitempty,max=100"`
	Description *string          `json:"description"`
	Day         *int             `json:"day" validate:"omitempty,gte=1"`
	IsDone      *bool            `json:"is_done"`
	SubEvents   *[]SubEventInput `json:"sub_events" validate:"omitempty,dive"`
}

// Patch converts a full request into a patch that sets every field.
func (r ScheduleEventRequest) Patch() ScheduleEventPatch {
	day := r.Day
	if day == 0 {
		day = 1
	}
	return ScheduleEventPatch{
		Title:       &r.Title,
		StartTime:   &r.StartTime,
		EndTime:     &r.EndTime,
		Location:    &r.Location,
		Description: &r.Description,
		Day:         &day,
		IsDone:      &r.IsDone,
		SubEvents:   r.SubEvents,
	}
}

// Apply copies the set fields of p onto ev.
func (p ScheduleEventPatch) Apply(ev *ScheduleEvent) {
	if p.Title != nil {
		ev.Title = *p.Title
	}
	if p.StartTime != nil {
		ev.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		ev.EndTime = *p.EndTime
	}
	if p.Location != nil {
		ev.Location = *p.Location
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	if p.Day != nil {
		ev.Day = *p.Day
	}
	if p.IsDone != nil {
		ev.IsDone = *p.IsDone
	}
}

// Auth requests

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Response types

type AdjustScoreResponse struct {
	Member      Member           `json:"member"`
	Transaction ScoreTransaction `json:"transaction"`
}

// UserInfo is the public shape of an account returned by the auth endpoints
type UserInfo struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	IsAdmin     bool   `json:"is_admin"`
	IsSuperuser bool   `json:"is_superuser"`
	DateJoined  string `json:"date_joined,omitempty"`
}

func NewUserInfo(u User) UserInfo {
	info := UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsAdmin:     u.Role.IsAdmin(),
		IsSuperuser: u.Role == RoleSuperuser,
	}
	if !u.DateJoined.IsZero() {
		info.DateJoined = u.DateJoined.Format("2006-01-02")
	}
	return info
}

type TokenResponse struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    *UserInfo `json:"user,omitempty"`
}

type ToggleAdminResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
	Message  string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
