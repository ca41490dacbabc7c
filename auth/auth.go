// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"

	"github.com/danielhkuo/dcon-scoreboard/models"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// ForbiddenError carries the message shown to a caller who lacks permission.
// errors.Is(err, ErrForbidden) matches every ForbiddenError.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

var (
	ErrAdminRequired      = &ForbiddenError{Msg: "Admin access required"}
	ErrSelfRoleChange     = &ForbiddenError{Msg: "You cannot change your own admin status"}
	ErrSuperuserProtected = &ForbiddenError{Msg: "Cannot modify superuser status"}
)

// CheckRoleChange reports whether actor may change target's role.
// Superuser accounts are protected no matter who asks, and nobody may
// change their own role.
func CheckRoleChange(actor, target models.User) error {
	switch {
	case !actor.Role.IsAdmin():
		return ErrAdminRequired
	case actor.ID == target.ID:
		return ErrSelfRoleChange
	case target.Role == models.RoleSuperuser:
		return ErrSuperuserProtected
	}
	return nil
}

// ToggledRole returns the role target moves to when its admin flag flips.
func ToggledRole(target models.User) models.Role {
	if target.Role == models.RoleAdmin {
		return models.RoleMember
	}
	return models.RoleAdmin
}
