// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, JWT issuance, and role rules.

# Passwords

Passwords are hashed with bcrypt:

	hash, err := auth.HashPassword(pw)
	err = auth.CheckPassword(hash, pw) // ErrInvalidCredentials on mismatch

ValidatePassword enforces the account rules before hashing: at least
eight characters, not entirely numeric, not close to the username, and
not on a short list of common passwords. Violations are *PasswordError
values whose message can be returned to the client as-is.

# Tokens

TokenIssuer signs HS256 JWTs with github.com/golang-jwt/jwt/v5:

	ti := auth.NewTokenIssuer(secret, issuer, 15*time.Minute, 24*time.Hour)
	pair, err := ti.Issue(user)
	claims, err := ti.Parse(pair.Access, auth.AccessToken)

Both token types carry sub (user id), jti (uuid), iss, iat, exp and a
typ claim of "access" or "refresh". Parse rejects a token of the wrong
type, so a refresh token cannot be presented as a bearer credential.

Refresh tokens are revoked by jti through the store's blacklist; that
check lives in the handlers, not here.

# Roles

	member < admin < superuser

CheckRoleChange is the single precondition for toggling a user's admin
flag. It returns a *ForbiddenError when the actor is not an admin, when
the actor targets their own account, or when the target is a superuser.
ToggledRole gives the role after the flip (member <-> admin).
*/
package auth
