package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xidui/funba/internal/models"
)

// GameStatsRepository handles team and player box-score rows
type GameStatsRepository struct {
	db *Database
}

// InsertTeamStatsTx inserts one team box line inside the caller's
// transaction. An existing row for the (game, team) key is left untouched.
func (r *GameStatsRepository) InsertTeamStatsTx(ctx context.Context, tx pgx.Tx, stats *models.TeamGameStats) error {
	query := `
		INSERT INTO team_game_stats (
			game_id, team_id, on_road, win, min, pts,
			fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct,
			oreb, dreb, reb, ast, stl, blk, tov, pf
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (game_id, team_id) DO NOTHING
	`

	_, err := tx.Exec(
		ctx, query,
		stats.GameID, stats.TeamID, stats.OnRoad, stats.Win, stats.Min, stats.Pts,
		stats.Fgm, stats.Fga, stats.FgPct, stats.Fg3m, stats.Fg3a, stats.Fg3Pct,
		stats.Ftm, stats.Fta, stats.FtPct, stats.Oreb, stats.Dreb, stats.Reb,
		stats.Ast, stats.Stl, stats.Blk, stats.Tov, stats.Pf,
	)
	if err != nil {
		return fmt.Errorf("failed to insert team game stats: %w", err)
	}

	return nil
}

// InsertPlayerStatsTx inserts one player box line inside the caller's
// transaction. An existing row for the (game, team, player) key is left
// untouched.
func (r *GameStatsRepository) InsertPlayerStatsTx(ctx context.Context, tx pgx.Tx, stats *models.PlayerGameStats) error {
	query := `
		INSERT INTO player_game_stats (
			game_id, team_id, player_id, comment, min, sec, starter, position,
			pts, fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct,
			oreb, dreb, reb, ast, stl, blk, tov, pf, plus
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		ON CONFLICT (game_id, team_id, player_id) DO NOTHING
	`

	_, err := tx.Exec(
		ctx, query,
		stats.GameID, stats.TeamID, stats.PlayerID, stats.Comment, stats.Min,
		stats.Sec, stats.Starter, stats.Position, stats.Pts, stats.Fgm,
		stats.Fga, stats.FgPct, stats.Fg3m, stats.Fg3a, stats.Fg3Pct,
		stats.Ftm, stats.Fta, stats.FtPct, stats.Oreb, stats.Dreb, stats.Reb,
		stats.Ast, stats.Stl, stats.Blk, stats.Tov, stats.Pf, stats.Plus,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player game stats: %w", err)
	}

	return nil
}

// HasGameDetail reports whether a game already has both team and player
// box rows. Used as the idempotency guard before a detail backfill.
func (r *GameStatsRepository) HasGameDetail(ctx context.Context, gameID string) (bool, error) {
	var teamRows, playerRows int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM team_game_stats WHERE game_id = $1),
			(SELECT COUNT(*) FROM player_game_stats WHERE game_id = $1)
	`, gameID).Scan(&teamRows, &playerRows)
	if err != nil {
		return false, fmt.Errorf("failed to check game detail: %w", err)
	}

	return teamRows != 0 && playerRows != 0, nil
}

// DistinctPlayerIDs returns every player id present in the detail table.
// The metrics driver iterates this set.
func (r *GameStatsRepository) DistinctPlayerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT player_id FROM player_game_stats`)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct players: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}
