// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/dcon-scoreboard/auth"
	"github.com/danielhkuo/dcon-scoreboard/models"
	"github.com/danielhkuo/dcon-scoreboard/store"
)

// UserSource resolves the account behind a verified token.
type UserSource interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string, want auth.TokenType) (*auth.Claims, error)
}

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

// Gate enforces the authenticated-read and admin-write access levels.
// Public-read routes are registered without it.
type Gate struct {
	users  UserSource
	tokens TokenParser
}

func NewGate(users UserSource, tokens TokenParser) *Gate {
	return &Gate{users: users, tokens: tokens}
}

// RequireAuth rejects requests without a valid access token with 401.
func (g *Gate) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r, ok := g.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r)
	}
}

// RequireAdmin additionally rejects non-admin users with 403.
// The role comes from the user row, not the token, so a demotion takes
// effect on the next request.
func (g *Gate) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r, ok := g.authenticate(w, r)
		if !ok {
			return
		}
		u, _ := UserFrom(r.Context())
		if !u.Role.IsAdmin() {
			ErrorResponse(w, http.StatusForbidden, auth.ErrAdminRequired.Error())
			return
		}
		next(w, r)
	}
}

func (g *Gate) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	token, ok := bearerToken(r)
	if !ok {
		unauthorized(w, "Authentication credentials were not provided")
		return r, false
	}

	claims, err := g.tokens.Parse(token, auth.AccessToken)
	if err != nil {
		zap.L().Debug("rejected bearer token", zap.Error(err))
		unauthorized(w, "Invalid or expired token")
		return r, false
	}

	// Parse already checked that sub is numeric
	id, _ := claims.UserID()
	u, err := g.users.GetUser(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		unauthorized(w, "User not found")
		return r, false
	}
	if err != nil {
		InternalError(w, r, "Failed to load user", err)
		return r, false
	}

	ctx := context.WithValue(r.Context(), userKey, u)
	ctx = context.WithValue(ctx, claimsKey, claims)
	return r.WithContext(ctx), true
}

// UserFrom returns the user the gate attached to ctx.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// ClaimsFrom returns the verified access token claims attached to ctx.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	ErrorResponse(w, http.StatusUnauthorized, message)
}
