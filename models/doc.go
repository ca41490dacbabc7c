// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Church: a competing team, with derived total_score and member_count
  - Member: an individual belonging to a church, carrying a score
  - ScoreTransaction: immutable audit row for a score delta
  - ScheduleEvent: a timetable entry for one event day
  - SubEvent: a parallel session nested under a ScheduleEvent
  - User: an account with a Role

Member.Score is the source of truth for rankings. ScoreTransaction rows
explain how it got there but are never replayed to recompute it.

# Roles

	RoleMember    = "member"
	RoleAdmin     = "admin"
	RoleSuperuser = "superuser"

Role.IsAdmin is true for admin and superuser.

# Request Types

  - ChurchRequest, MemberRequest, AdjustScoreRequest
  - ScheduleEventRequest (POST/PUT) and ScheduleEventPatch (PATCH)
  - RegisterRequest, LoginRequest, RefreshRequest, ChangePasswordRequest

Request structs carry validate tags consumed by the handlers package.
SubEvents is a pointer to a slice so that an omitted list can be told
apart from an explicit empty one.

# Response Types

  - ChurchStanding: church leaderboard row
  - AdjustScoreResponse: {member, transaction}
  - TokenResponse, UserInfo, ToggleAdminResponse, MessageResponse
  - ErrorResponse: {error} plus an optional field map

# Slugs

	models.Slugify("St. Mark") // "st-mark"
*/
package models
