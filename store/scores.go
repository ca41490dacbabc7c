// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/dcon-scoreboard/models"
)

// DefaultTransactionLimit caps ListTransactions when no limit is given.
const DefaultTransactionLimit = 100

func scanTransaction(row rowScanner) (models.ScoreTransaction, error) {
	var (
		t        models.ScoreTransaction
		memberID sql.NullInt64
		churchID sql.NullInt64
	)
	if err := row.Scan(&t.ID, &memberID, &churchID, &t.Points, &t.Reason, &t.Timestamp); err != nil {
		return t, err
	}
	if memberID.Valid {
		t.MemberID = &memberID.Int64
	}
	if churchID.Valid {
		t.ChurchID = &churchID.Int64
	}
	return t, nil
}

// AdjustScore applies a relative delta to a member's score and appends the
// matching audit row. Both writes commit together or not at all. The UPDATE
// locks the member row, so concurrent adjustments serialize and compose.
func (s *Store) AdjustScore(ctx context.Context, memberID, points int64, reason string) (models.Member, models.ScoreTransaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Member{}, models.ScoreTransaction{}, invalid("reason", "required")
	}

	var (
		member models.Member
		txn    models.ScoreTransaction
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE member
			SET score = score + $1
			WHERE id = $2
			RETURNING id, name, church_id, score
		`, points, memberID).Scan(&member.ID, &member.Name, &member.ChurchID, &member.Score)
		if err != nil {
			return translate(err)
		}

		err = tx.QueryRowContext(ctx, `SELECT name FROM church WHERE id = $1`, member.ChurchID).Scan(&member.ChurchName)
		if err != nil {
			return fmt.Errorf("failed to load member church: %w", err)
		}

		txn = models.ScoreTransaction{MemberID: &member.ID, Points: points, Reason: reason}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO score_transaction (member_id, points, reason)
			VALUES ($1, $2, $3)
			RETURNING id, timestamp
		`, member.ID, points, reason).Scan(&txn.ID, &txn.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert score transaction: %w", translate(err))
		}
		return nil
	})
	if err != nil {
		return models.Member{}, models.ScoreTransaction{}, err
	}

	return member, txn, nil
}

// ListMemberTransactions returns a member's transactions, newest first.
func (s *Store) ListMemberTransactions(ctx context.Context, memberID int64) ([]models.ScoreTransaction, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT true FROM member WHERE id = $1`, memberID).Scan(&exists); err != nil {
		return nil, translate(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, church_id, points, reason, timestamp
		FROM score_transaction
		WHERE member_id = $1
		ORDER BY timestamp DESC, id DESC
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListTransactions returns the most recent transactions across all targets,
// including rows written against a church by the retired scoring flow.
func (s *Store) ListTransactions(ctx context.Context, limit int) ([]models.ScoreTransaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, church_id, points, reason, timestamp
		FROM score_transaction
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]models.ScoreTransaction, error) {
	defer rows.Close()

	txns := []models.ScoreTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
