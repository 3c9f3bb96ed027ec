package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xidui/funba/internal/models"
)

// SeasonMetricsRepository handles streak-conditioned season aggregates.
// Rows are a pure function of the stored shot stream, so every write is a
// full overwrite of the partition's counters.
type SeasonMetricsRepository struct {
	db *Database
}

// Upsert writes one partition's counters, replacing any previous values
func (r *SeasonMetricsRepository) Upsert(ctx context.Context, m *models.PlayerSeasonMetrics) error {
	query := `
		INSERT INTO player_season_metrics (
			player_id, team_id, season,
			shot_attempt, shot_made, shot_attempt_after_made, shot_made_after_made,
			three_pointer_attempt, three_pointer_made,
			three_pointer_attempt_after_one_miss, three_pointer_made_after_one_miss,
			three_pointer_attempt_after_two_miss, three_pointer_made_after_two_miss
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (player_id, team_id, season) DO UPDATE SET
			shot_attempt = EXCLUDED.shot_attempt,
			shot_made = EXCLUDED.shot_made,
			shot_attempt_after_made = EXCLUDED.shot_attempt_after_made,
			shot_made_after_made = EXCLUDED.shot_made_after_made,
			three_pointer_attempt = EXCLUDED.three_pointer_attempt,
			three_pointer_made = EXCLUDED.three_pointer_made,
			three_pointer_attempt_after_one_miss = EXCLUDED.three_pointer_attempt_after_one_miss,
			three_pointer_made_after_one_miss = EXCLUDED.three_pointer_made_after_one_miss,
			three_pointer_attempt_after_two_miss = EXCLUDED.three_pointer_attempt_after_two_miss,
			three_pointer_made_after_two_miss = EXCLUDED.three_pointer_made_after_two_miss,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		m.PlayerID, m.TeamID, m.Season,
		m.ShotAttempt, m.ShotMade, m.ShotAttemptAfterMade, m.ShotMadeAfterMade,
		m.ThreePointerAttempt, m.ThreePointerMade,
		m.ThreePointerAttemptAfterOneMiss, m.ThreePointerMadeAfterOneMiss,
		m.ThreePointerAttemptAfterTwoMiss, m.ThreePointerMadeAfterTwoMiss,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert season metrics: %w", err)
	}

	return nil
}

// GetByKey retrieves one partition's counters
func (r *SeasonMetricsRepository) GetByKey(ctx context.Context, playerID, teamID, season string) (*models.PlayerSeasonMetrics, error) {
	query := `
		SELECT player_id, team_id, season,
		       shot_attempt, shot_made, shot_attempt_after_made, shot_made_after_made,
		       three_pointer_attempt, three_pointer_made,
		       three_pointer_attempt_after_one_miss, three_pointer_made_after_one_miss,
		       three_pointer_attempt_after_two_miss, three_pointer_made_after_two_miss,
		       created_at, updated_at
		FROM player_season_metrics
		WHERE player_id = $1 AND team_id = $2 AND season = $3
	`

	var m models.PlayerSeasonMetrics
	err := r.db.Pool.QueryRow(ctx, query, playerID, teamID, season).Scan(
		&m.PlayerID, &m.TeamID, &m.Season,
		&m.ShotAttempt, &m.ShotMade, &m.ShotAttemptAfterMade, &m.ShotMadeAfterMade,
		&m.ThreePointerAttempt, &m.ThreePointerMade,
		&m.ThreePointerAttemptAfterOneMiss, &m.ThreePointerMadeAfterOneMiss,
		&m.ThreePointerAttemptAfterTwoMiss, &m.ThreePointerMadeAfterTwoMiss,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("season metrics not found: player_id=%s team_id=%s season=%s", playerID, teamID, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season metrics: %w", err)
	}

	return &m, nil
}
