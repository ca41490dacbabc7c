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

const churchColumns = `
	c.id, c.name, c.slug, c.description,
	COALESCE(SUM(m.score), 0) AS total_score,
	COUNT(m.id) AS member_count`

func scanChurch(row rowScanner) (models.Church, error) {
	var c models.Church
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.TotalScore, &c.MemberCount)
	return c, err
}

// ListChurches returns every church with its aggregates, ordered by id.
func (s *Store) ListChurches(ctx context.Context) ([]models.Church, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+churchColumns+`
		FROM church c
		LEFT JOIN member m ON m.church_id = c.id
		GROUP BY c.id
		ORDER BY c.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query churches: %w", err)
	}
	defer rows.Close()

	churches := []models.Church{}
	for rows.Next() {
		c, err := scanChurch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan church: %w", err)
		}
		churches = append(churches, c)
	}
	return churches, rows.Err()
}

// GetChurch returns one church with its aggregates.
func (s *Store) GetChurch(ctx context.Context, id int64) (models.Church, error) {
	c, err := scanChurch(s.db.QueryRowContext(ctx, `
		SELECT`+churchColumns+`
		FROM church c
		LEFT JOIN member m ON m.church_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`, id))
	if err != nil {
		return models.Church{}, translate(err)
	}
	return c, nil
}

// GetChurchDetail returns a church and its members in leaderboard order.
func (s *Store) GetChurchDetail(ctx context.Context, id int64) (models.ChurchDetail, error) {
	c, err := s.GetChurch(ctx, id)
	if err != nil {
		return models.ChurchDetail{}, err
	}

	members, err := s.ListMembers(ctx, &id)
	if err != nil {
		return models.ChurchDetail{}, err
	}

	return models.ChurchDetail{Church: c, Members: members}, nil
}

// ChurchTotalScore sums the scores of a church's current members.
// A church with no members totals 0.
func (s *Store) ChurchTotalScore(ctx context.Context, id int64) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COALESCE(SUM(score), 0) FROM member WHERE church_id = c.id)
		FROM church c
		WHERE c.id = $1
	`, id).Scan(&total)
	if err != nil {
		return 0, translate(err)
	}
	return total.Int64, nil
}

// CreateChurch inserts a church. An empty slug is derived from the name.
func (s *Store) CreateChurch(ctx context.Context, name, slug, description string) (models.Church, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Church{}, invalid("name", "required")
	}
	if slug == "" {
		slug = models.Slugify(name)
	}
	if len(slug) > models.MaxSlugLength {
		return models.Church{}, invalid("slug", "max")
	}
	if !models.IsSlug(slug) {
		return models.Church{}, invalid("slug", "slug")
	}

	var c models.Church
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO church (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, slug, description
	`, name, slug, description).Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	if err != nil {
		return models.Church{}, translate(err)
	}
	return c, nil
}

// UpdateChurch changes a church's name and description. The slug is fixed
// at creation; passing a different non-empty slug is rejected.
func (s *Store) UpdateChurch(ctx context.Context, id int64, name, slug, description string) (models.Church, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Church{}, invalid("name", "required")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT slug FROM church WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			return translate(err)
		}
		if slug != "" && slug != current {
			return invalid("slug", "immutable")
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE church SET name = $1, description = $2 WHERE id = $3
		`, name, description, id)
		return translate(err)
	})
	if err != nil {
		return models.Church{}, err
	}

	return s.GetChurch(ctx, id)
}

// DeleteChurch removes a church together with its members and every
// transaction that references either, in one transaction.
func (s *Store) DeleteChurch(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT true FROM church WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			return translate(err)
		}

		// Hold the members so a concurrent AdjustScore cannot log against
		// a row we are about to delete.
		if _, err := tx.ExecContext(ctx, `SELECT id FROM member WHERE church_id = $1 FOR UPDATE`, id); err != nil {
			return fmt.Errorf("failed to lock church members: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM score_transaction
			WHERE church_id = $1
			   OR member_id IN (SELECT id FROM member WHERE church_id = $1)
		`, id); err != nil {
			return fmt.Errorf("failed to delete church transactions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM member WHERE church_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete church members: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM church WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete church: %w", err)
		}
		return nil
	})
}
