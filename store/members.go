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

// memberOrder is the canonical member ordering used by every listing.
const memberOrder = `m.score DESC, m.name ASC, m.id ASC`

func scanMember(row rowScanner) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.Name, &m.ChurchID, &m.ChurchName, &m.Score)
	return m, err
}

// ListMembers returns members in canonical order, optionally limited to one church.
func (s *Store) ListMembers(ctx context.Context, churchID *int64) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.church_id, c.name, m.score
		FROM member m
		JOIN church c ON c.id = m.church_id
		WHERE $1::bigint IS NULL OR m.church_id = $1
		ORDER BY `+memberOrder, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) GetMember(ctx context.Context, id int64) (models.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, `
		SELECT m.id, m.name, m.church_id, c.name, m.score
		FROM member m
		JOIN church c ON c.id = m.church_id
		WHERE m.id = $1
	`, id))
	if err != nil {
		return models.Member{}, translate(err)
	}
	return m, nil
}

// CreateMember inserts a member. A missing church surfaces as ErrInvalidReference.
func (s *Store) CreateMember(ctx context.Context, name string, churchID, score int64) (models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Member{}, invalid("name", "required")
	}

	m, err := scanMember(s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO member (name, church_id, score)
			VALUES ($1, $2, $3)
			RETURNING id, name, church_id, score
		)
		SELECT i.id, i.name, i.church_id, c.name, i.score
		FROM inserted i
		JOIN church c ON c.id = i.church_id
	`, name, churchID, score))
	if err != nil {
		return models.Member{}, translate(err)
	}
	return m, nil
}

// UpdateMember overwrites a member's name and church. A nil score keeps the
// stored value. Concurrent updates are last-write-wins.
func (s *Store) UpdateMember(ctx context.Context, id int64, name string, churchID int64, score *int64) (models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Member{}, invalid("name", "required")
	}

	m, err := scanMember(s.db.QueryRowContext(ctx, `
		WITH updated AS (
			UPDATE member
			SET name = $2, church_id = $3, score = COALESCE($4::bigint, score)
			WHERE id = $1
			RETURNING id, name, church_id, score
		)
		SELECT u.id, u.name, u.church_id, c.name, u.score
		FROM updated u
		JOIN church c ON c.id = u.church_id
	`, id, name, churchID, score))
	if err != nil {
		return models.Member{}, translate(err)
	}
	return m, nil
}

// DeleteMember removes a member and its transactions in one transaction.
func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT true FROM member WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			return translate(err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM score_transaction WHERE member_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete member transactions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM member WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
}
