// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/auth"
	"github.com/danielhkuo/dcon-scoreboard/middleware"
	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

// dummyHash is compared against when a login names an unknown user, so
// both failure paths cost one bcrypt comparison.
var dummyHash, _ = auth.HashPassword("unknown-user-placeholder")

type AccountHandler struct {
	store  *store.Store
	tokens *auth.TokenIssuer
}

func NewAccountHandler(db *sql.DB, tokens *auth.TokenIssuer) *AccountHandler {
	return &AccountHandler{store: store.New(db), tokens: tokens}
}

// Register handles POST /auth/register/
// New accounts are members and are logged in immediately.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := auth.ValidatePassword(req.Password, req.Username); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		middleware.InternalError(w, r, "Failed to create account", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, req.Email, hash, models.RoleMember)
	if errors.Is(err, store.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		writeStoreError(w, r, err, "User")
		return
	}

	zap.L().Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	h.respondWithTokens(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login/
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		_ = auth.CheckPassword(dummyHash, req.Password)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "Failed to log in", err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			zap.L().Warn("password check failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// Refresh handles POST /auth/refresh/
// The presented refresh token is revoked and a new pair issued.
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil || req.Refresh == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	claims, err := h.tokens.Parse(req.Refresh, auth.RefreshToken)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	revoked, err := h.store.IsTokenBlacklisted(r.Context(), claims.ID)
	if err != nil {
		middleware.InternalError(w, r, "Failed to refresh token", err)
		return
	}
	if revoked {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Token is blacklisted")
		return
	}

	userID, _ := claims.UserID()
	user, err := h.store.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err != nil {
		middleware.InternalError(w, r, "Failed to refresh token", err)
		return
	}

	// Revoking is the claim on the token: only the request that inserts
	// the blacklist row gets a new pair.
	claimed, err := h.store.BlacklistToken(r.Context(), claims.ID, user.ID, claims.ExpiresAt.Time)
	if err != nil {
		middleware.InternalError(w, r, "Failed to refresh token", err)
		return
	}
	if !claimed {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Token is blacklisted")
		return
	}

	pair, err := h.tokens.Issue(user)
	if err != nil {
		middleware.InternalError(w, r, "Failed to refresh token", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Profile handles GET /auth/profile/
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	middleware.JSONResponse(w, http.StatusOK, models.NewUserInfo(user))
}

// Logout handles POST /auth/logout/
// Always succeeds; a valid refresh token owned by the caller is revoked.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req models.RefreshRequest
	if err := middleware.ParseJSONBody(r, &req); err == nil && req.Refresh != "" {
		claims, err := h.tokens.Parse(req.Refresh, auth.RefreshToken)
		if err == nil {
			if owner, _ := claims.UserID(); owner == user.ID {
				if _, err := h.store.BlacklistToken(r.Context(), claims.ID, user.ID, claims.ExpiresAt.Time); err != nil {
					zap.L().Warn("failed to revoke refresh token on logout", zap.Error(err))
				}
			}
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

// ChangePassword handles POST /auth/change-password/
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Old password and new password are required")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.OldPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword, user.Username); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		middleware.InternalError(w, r, "Failed to change password", err)
		return
	}
	if err := h.store.SetPasswordHash(r.Context(), user.ID, hash); err != nil {
		writeStoreError(w, r, err, "User")
		return
	}

	zap.L().Info("password changed", zap.Int64("user_id", user.ID))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Password changed successfully"})
}

// Users handles GET /auth/users/
func (h *AccountHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		middleware.InternalError(w, r, "Failed to load users", err)
		return
	}

	infos := make([]models.UserInfo, len(users))
	for i, u := range users {
		infos[i] = models.NewUserInfo(u)
	}
	middleware.JSONResponse(w, http.StatusOK, infos)
}

// ToggleAdmin handles POST /auth/users/{id}/toggle-admin/
func (h *AccountHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, _ := middleware.UserFrom(r.Context())

	target, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "User")
		return
	}

	if err := auth.CheckRoleChange(actor, target); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		return
	}

	updated, err := h.store.SetUserRole(r.Context(), target.ID, auth.ToggledRole(target))
	if err != nil {
		writeStoreError(w, r, err, "User")
		return
	}

	verb := "Demoted"
	if updated.Role.IsAdmin() {
		verb = "Promoted"
	}
	zap.L().Info("user role changed",
		zap.Int64("user_id", updated.ID),
		zap.String("role", string(updated.Role)),
		zap.String("by", actor.Username),
	)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleAdminResponse{
		ID:       updated.ID,
		Username: updated.Username,
		Role:     updated.Role,
		IsAdmin:  updated.Role.IsAdmin(),
		Message:  verb + " " + updated.Username,
	})
}

func (h *AccountHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	pair, err := h.tokens.Issue(user)
	if err != nil {
		middleware.InternalError(w, r, "Failed to issue tokens", err)
		return
	}

	info := models.NewUserInfo(user)
	middleware.JSONResponse(w, status, models.TokenResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    &info,
	})
}
