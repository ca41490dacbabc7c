// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/dcon-scoreboard/models"
)

// ChurchLeaderboard ranks every church by the sum of its members' scores.
// The aggregate is computed in a single query; ties fall back to id.
func (s *Store) ChurchLeaderboard(ctx context.Context) ([]models.ChurchStanding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description,
		       COALESCE(SUM(m.score), 0) AS leaderboard_score,
		       COUNT(m.id) AS members_total
		FROM church c
		LEFT JOIN member m ON m.church_id = c.id
		GROUP BY c.id
		ORDER BY leaderboard_score DESC, c.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query church leaderboard: %w", err)
	}
	defer rows.Close()

	standings := []models.ChurchStanding{}
	for rows.Next() {
		var cs models.ChurchStanding
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Slug, &cs.Description, &cs.LeaderboardScore, &cs.MembersTotal); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		cs.Rank = len(standings) + 1
		cs.TotalScore = cs.LeaderboardScore
		standings = append(standings, cs)
	}
	return standings, rows.Err()
}

// MemberLeaderboard ranks all members by score, then name.
func (s *Store) MemberLeaderboard(ctx context.Context) ([]models.Member, error) {
	return s.ListMembers(ctx, nil)
}
