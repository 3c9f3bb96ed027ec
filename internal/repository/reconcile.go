package repository

import (
	"context"
	"fmt"

	"github.com/xidui/funba/internal/models"
)

// ReconcileRepository answers the planning queries of the backfill driver:
// which keys have fewer granular rows than the reference counts say they
// should, and which games are missing whole detail or event payloads.
type ReconcileRepository struct {
	db *Database
}

// UnfilledShotScopes compares, per (game, player, team) key, the stored shot
// count against the attempt count from the box score, and returns every key
// where shots are missing. Keys present only in the box score count as zero
// stored shots. Empty gameID or playerID disables that filter.
//
// Keys with more stored shots than expected are not returned; they indicate
// upstream corrections and are handled by a manual re-backfill.
func (r *ReconcileRepository) UnfilledShotScopes(ctx context.Context, gameID, playerID string) ([]models.ShotScope, error) {
	query := `
		WITH actual AS (
			SELECT game_id, player_id, team_id, COUNT(*) AS shot_count
			FROM shot_records
			WHERE ($1 = '' OR game_id = $1)
			  AND ($2 = '' OR player_id = $2)
			GROUP BY game_id, player_id, team_id
		),
		expected AS (
			SELECT game_id, player_id, team_id, SUM(fga) AS attempt_count
			FROM player_game_stats
			WHERE fga IS NOT NULL
			  AND ($1 = '' OR game_id = $1)
			  AND ($2 = '' OR player_id = $2)
			GROUP BY game_id, player_id, team_id
		)
		SELECT expected.game_id, expected.player_id, expected.team_id
		FROM expected
		LEFT JOIN actual USING (game_id, player_id, team_id)
		WHERE COALESCE(actual.shot_count, 0) < COALESCE(expected.attempt_count, 0)
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unfilled shot scopes: %w", err)
	}
	defer rows.Close()

	var scopes []models.ShotScope
	for rows.Next() {
		var s models.ShotScope
		if err := rows.Scan(&s.GameID, &s.PlayerID, &s.TeamID); err != nil {
			return nil, fmt.Errorf("failed to scan shot scope: %w", err)
		}
		scopes = append(scopes, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shot scopes: %w", err)
	}

	return scopes, nil
}

// IsScopeFilled re-checks a single key right before fetching. Another worker
// may have filled it since planning; the check is advisory, the per-key
// transaction is what keeps a double fill out.
func (r *ReconcileRepository) IsScopeFilled(ctx context.Context, scope models.ShotScope) (bool, error) {
	var actual, expected int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM shot_records
			 WHERE game_id = $1 AND player_id = $2 AND team_id = $3),
			(SELECT COALESCE(SUM(fga), 0) FROM player_game_stats
			 WHERE game_id = $1 AND player_id = $2 AND team_id = $3)
	`, scope.GameID, scope.PlayerID, scope.TeamID).Scan(&actual, &expected)
	if err != nil {
		return false, fmt.Errorf("failed to check shot scope: %w", err)
	}

	return actual >= expected, nil
}

// GamesMissingDetail returns ids of games with no box-score rows yet
func (r *ReconcileRepository) GamesMissingDetail(ctx context.Context) ([]string, error) {
	query := `
		SELECT g.game_id
		FROM games g
		WHERE NOT EXISTS (
			SELECT 1 FROM team_game_stats t WHERE t.game_id = g.game_id
		)
		ORDER BY g.game_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games missing detail: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// GamesMissingPlayByPlay returns ids of games with no event rows yet.
// The upstream feed has no play-by-play before the 1996-97 season, so
// earlier seasons are excluded rather than retried forever.
func (r *ReconcileRepository) GamesMissingPlayByPlay(ctx context.Context) ([]string, error) {
	query := `
		SELECT g.game_id
		FROM games g
		WHERE g.season IS NOT NULL
		  AND substring(g.season from 2) > '1995'
		  AND NOT EXISTS (
			SELECT 1 FROM play_by_play p WHERE p.game_id = g.game_id
		  )
		ORDER BY g.game_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games missing play-by-play: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// OutstandingCounts returns the size of each backlog for gauge export
func (r *ReconcileRepository) OutstandingCounts(ctx context.Context) (shots, details, events int, err error) {
	scopes, err := r.UnfilledShotScopes(ctx, "", "")
	if err != nil {
		return 0, 0, 0, err
	}

	missingDetail, err := r.GamesMissingDetail(ctx)
	if err != nil {
		return 0, 0, 0, err
	}

	missingPbp, err := r.GamesMissingPlayByPlay(ctx)
	if err != nil {
		return 0, 0, 0, err
	}

	return len(scopes), len(missingDetail), len(missingPbp), nil
}
