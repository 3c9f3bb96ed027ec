package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

// Upsert inserts or updates a player by its natural key
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (
			player_id, first_name, last_name, full_name, nick_name,
			is_active, is_team
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			full_name = EXCLUDED.full_name,
			nick_name = EXCLUDED.nick_name,
			is_active = EXCLUDED.is_active,
			is_team = EXCLUDED.is_team
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		player.PlayerID, player.FirstName, player.LastName, player.FullName,
		player.NickName, player.IsActive, player.IsTeam,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	return nil
}

// EnsureStub inserts a minimal placeholder row for a player id discovered
// in event data. Runs as its own atomic statement so a concurrent stub
// creation from another worker cannot fail the caller's batch; an existing
// row is success.
func (r *PlayerRepository) EnsureStub(ctx context.Context, playerID string) error {
	query := `
		INSERT INTO players (player_id)
		VALUES ($1)
		ON CONFLICT (player_id) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, query, playerID)
	if err != nil {
		if IsDuplicateKey(err) {
			return nil
		}
		return fmt.Errorf("failed to create player stub: %w", err)
	}

	if tag.RowsAffected() > 0 {
		log.Info().Str("player_id", playerID).Msg("Player did not exist, stub created")
	}

	return nil
}

// InsertIfAbsent inserts a named player row unless one already exists.
// Box-score and seed passes use this so a row created earlier, possibly
// with better data, is never overwritten.
func (r *PlayerRepository) InsertIfAbsent(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (
			player_id, first_name, last_name, full_name, nick_name,
			is_active, is_team
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO NOTHING
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		player.PlayerID, player.FirstName, player.LastName, player.FullName,
		player.NickName, player.IsActive, player.IsTeam,
	)
	if err != nil {
		if IsDuplicateKey(err) {
			return nil
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}

	return nil
}

// Exists reports whether a player row is present
func (r *PlayerRepository) Exists(ctx context.Context, playerID string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM players WHERE player_id = $1)`,
		playerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check player existence: %w", err)
	}
	return exists, nil
}
