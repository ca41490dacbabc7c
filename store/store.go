// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique key.
	ErrConflict = errors.New("conflict")
	// ErrInvalidReference is returned when a write points at a missing parent row.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalid is returned when input fails a domain rule.
	ErrInvalid = errors.New("invalid")
)

// FieldError is a rejected write tied to one request field. It matches
// ErrInvalid, or ErrInvalidReference when the field names a missing parent.
type FieldError struct {
	Field string
	Msg   string
	kind  error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Msg }

func (e *FieldError) Unwrap() error { return e.kind }

func invalid(field, msg string) error {
	return &FieldError{Field: field, Msg: msg, kind: ErrInvalid}
}

// foreignKeyFields maps FK constraint names to the request field that
// carried the bad reference.
var foreignKeyFields = map[string]string{
	"member_church_id_fkey":            "church",
	"score_transaction_member_id_fkey": "member_id",
	"score_transaction_church_id_fkey": "church",
	"sub_event_schedule_event_id_fkey": "schedule_event",
	"token_blacklist_user_id_fkey":     "user_id",
}

// Postgres SQLSTATE codes we translate
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
	codeStringTooLong       = "22001"
)

// Store is the Postgres-backed entity store.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping checks connectivity to the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, committing only if fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translate(err))
	}
	return nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	case codeForeignKeyViolation:
		field, ok := foreignKeyFields[pqErr.Constraint]
		if !ok {
			field = pqErr.Constraint
		}
		return &FieldError{Field: field, Msg: "does_not_exist", kind: ErrInvalidReference}
	case codeCheckViolation:
		return fmt.Errorf("%w: %s", ErrInvalid, pqErr.Constraint)
	case codeNumericOutOfRange:
		return invalid("points", "score out of range")
	case codeStringTooLong:
		// Postgres does not name the column here.
		return fmt.Errorf("%w: %s", ErrInvalid, pqErr.Message)
	}

	zap.L().Debug("untranslated postgres error",
		zap.String("code", string(pqErr.Code)),
		zap.String("message", pqErr.Message),
	)
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
