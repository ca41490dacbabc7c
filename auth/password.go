// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest password ValidatePassword accepts
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit
	MaxPasswordBytes = 72
)

// PasswordError is a password rule violation; Error is safe to show users.
type PasswordError struct {
	Msg string
}

func (e *PasswordError) Error() string { return e.Msg }

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "passw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "87654321": {},
	"qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {},
	"abc12345": {}, "letmein1": {}, "trustno1": {}, "superman": {},
	"starwars": {}, "whatever": {}, "computer": {}, "internet": {},
	"11111111": {}, "00000000": {}, "admin123": {}, "changeme": {},
}

// ValidatePassword checks a candidate password against the account rules.
// Only the first failing rule is reported.
func ValidatePassword(password, username string) error {
	if len([]rune(password)) < MinPasswordLength {
		return &PasswordError{Msg: fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", MinPasswordLength)}
	}
	if len(password) > MaxPasswordBytes {
		return &PasswordError{Msg: "This password is too long."}
	}

	lower := strings.ToLower(password)
	if u := strings.ToLower(strings.TrimSpace(username)); u != "" {
		if lower == u || strings.Contains(lower, u) || strings.Contains(u, lower) {
			return &PasswordError{Msg: "The password is too similar to the username."}
		}
	}

	if _, ok := commonPasswords[lower]; ok {
		return &PasswordError{Msg: "This password is too common."}
	}

	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return &PasswordError{Msg: "This password is entirely numeric."}
	}

	return nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a password with a stored bcrypt hash
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return err
}
