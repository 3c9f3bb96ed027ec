package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xidui/funba/internal/models"
)

// ShotRepository handles shot record rows. The table is append-only:
// reconciliation adds missing rows, nothing updates or deletes them.
type ShotRepository struct {
	db *Database
}

// CountByScope returns the number of stored shots for one
// (game, player, team) key.
func (r *ShotRepository) CountByScope(ctx context.Context, scope models.ShotScope) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM shot_records
		WHERE game_id = $1 AND player_id = $2 AND team_id = $3
	`, scope.GameID, scope.PlayerID, scope.TeamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shots: %w", err)
	}
	return count, nil
}

// InsertBatchTx inserts shot rows inside the caller's transaction using a
// single pipelined batch.
func (r *ShotRepository) InsertBatchTx(ctx context.Context, tx pgx.Tx, shots []*models.ShotRecord) error {
	if len(shots) == 0 {
		return nil
	}

	query := `
		INSERT INTO shot_records (
			game_id, team_id, player_id, season, period, min, sec,
			event_type, action_type, shot_type, shot_zone_basic,
			shot_zone_area, shot_zone_range, shot_distance, loc_x, loc_y,
			shot_attempted, shot_made
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	batch := &pgx.Batch{}
	for _, s := range shots {
		batch.Queue(
			query,
			s.GameID, s.TeamID, s.PlayerID, s.Season, s.Period, s.Min, s.Sec,
			s.EventType, s.ActionType, s.ShotType, s.ShotZoneBasic,
			s.ShotZoneArea, s.ShotZoneRange, s.ShotDistance, s.LocX, s.LocY,
			s.ShotAttempted, s.ShotMade,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range shots {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert shot record: %w", err)
		}
	}

	return nil
}

// PlayerShotsOrdered returns every stored shot for one player in metric
// order: season, then team within the season, then game, then insertion
// order within the game.
func (r *ShotRepository) PlayerShotsOrdered(ctx context.Context, playerID string) ([]models.ShotRecord, error) {
	query := `
		SELECT id, game_id, team_id, player_id, season, period, min, sec,
		       event_type, action_type, shot_type, shot_zone_basic,
		       shot_zone_area, shot_zone_range, shot_distance, loc_x, loc_y,
		       shot_attempted, shot_made
		FROM shot_records
		WHERE player_id = $1
		ORDER BY season ASC, team_id ASC, game_id ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player shots: %w", err)
	}
	defer rows.Close()

	var shots []models.ShotRecord
	for rows.Next() {
		var s models.ShotRecord
		err := rows.Scan(
			&s.ID, &s.GameID, &s.TeamID, &s.PlayerID, &s.Season, &s.Period,
			&s.Min, &s.Sec, &s.EventType, &s.ActionType, &s.ShotType,
			&s.ShotZoneBasic, &s.ShotZoneArea, &s.ShotZoneRange,
			&s.ShotDistance, &s.LocX, &s.LocY, &s.ShotAttempted, &s.ShotMade,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shot record: %w", err)
		}
		shots = append(shots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shots: %w", err)
	}

	return shots, nil
}

// DistinctPlayerIDs returns every player id with at least one stored shot
func (r *ShotRepository) DistinctPlayerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT player_id FROM shot_records`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shooters: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}
