package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/models"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// EnsureExists inserts a bare game row if one is not present yet. Detail
// fields are filled by the detail backfill.
func (r *GameRepository) EnsureExists(ctx context.Context, gameID string) error {
	query := `
		INSERT INTO games (game_id)
		VALUES ($1)
		ON CONFLICT (game_id) DO NOTHING
	`

	if _, err := r.db.Pool.Exec(ctx, query, gameID); err != nil {
		return fmt.Errorf("failed to ensure game exists: %w", err)
	}
	return nil
}

// Seed writes the schedule-level fields known at season ingestion time:
// season, date and the matchup string the detail backfill later resolves
// home/road from. Safe to re-run for an already seeded game.
func (r *GameRepository) Seed(ctx context.Context, gameID, season string, gameDate time.Time, matchup string) error {
	query := `
		INSERT INTO games (game_id, season, game_date, matchup)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id) DO UPDATE SET
			season = EXCLUDED.season,
			game_date = EXCLUDED.game_date,
			matchup = EXCLUDED.matchup,
			updated_at = NOW()
	`

	if _, err := r.db.Pool.Exec(ctx, query, gameID, season, gameDate, matchup); err != nil {
		return fmt.Errorf("failed to seed game: %w", err)
	}
	return nil
}

// GetByGameID retrieves a game by its upstream id
func (r *GameRepository) GetByGameID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `
		SELECT game_id, season, game_date, matchup, home_team_id, road_team_id,
		       winning_team_id, home_team_score, road_team_score, pity_loss,
		       created_at, updated_at
		FROM games
		WHERE game_id = $1
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, gameID).Scan(
		&game.GameID, &game.Season, &game.GameDate, &game.Matchup,
		&game.HomeTeamID, &game.RoadTeamID, &game.WinningTeamID,
		&game.HomeTeamScore, &game.RoadTeamScore, &game.PityLoss,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: game_id=%s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// UpdateDetailTx writes the game-level derived fields (season, date, teams,
// scores, winner) inside the caller's transaction. Derivation is idempotent:
// re-running with the same box score writes the same values.
func (r *GameRepository) UpdateDetailTx(ctx context.Context, tx pgx.Tx, game *models.Game) error {
	query := `
		UPDATE games SET
			season = $2,
			game_date = $3,
			home_team_id = $4,
			road_team_id = $5,
			winning_team_id = $6,
			home_team_score = $7,
			road_team_score = $8,
			updated_at = NOW()
		WHERE game_id = $1
	`

	tag, err := tx.Exec(
		ctx, query,
		game.GameID, game.Season, game.GameDate, game.HomeTeamID,
		game.RoadTeamID, game.WinningTeamID, game.HomeTeamScore, game.RoadTeamScore,
	)
	if err != nil {
		return fmt.Errorf("failed to update game detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game not found: game_id=%s", game.GameID)
	}

	return nil
}

// SetPityLoss writes the derived clutch-loss flag. The flag is explicitly
// false after a clean full scan, never left null.
func (r *GameRepository) SetPityLoss(ctx context.Context, gameID string, pity bool) error {
	query := `UPDATE games SET pity_loss = $2, updated_at = NOW() WHERE game_id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, gameID, pity)
	if err != nil {
		return fmt.Errorf("failed to set pity loss: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game not found: game_id=%s", gameID)
	}

	log.Debug().Str("game_id", gameID).Bool("pity_loss", pity).Msg("Pity loss flag set")
	return nil
}

// ListPityUnset returns ids of games whose clutch-loss flag has not been
// derived yet and whose play-by-play is ready to scan. Games from the
// pre-event-data era qualify with no events: they scan as an empty stream
// and flag false. Event-era games wait for the play-by-play backfill so a
// missing stream is never mistaken for a clean one.
func (r *GameRepository) ListPityUnset(ctx context.Context) ([]string, error) {
	query := `
		SELECT g.game_id
		FROM games g
		WHERE g.pity_loss IS NULL
		  AND (
			substring(g.season from 2) <= '1995'
			OR EXISTS (SELECT 1 FROM play_by_play p WHERE p.game_id = g.game_id)
		  )
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games with pity loss unset: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ListBySeason returns game ids for one season
func (r *GameRepository) ListBySeason(ctx context.Context, season string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT game_id FROM games WHERE season = $1`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by season: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// BackToBackCounts returns, per team, how many games in the season were
// played the day after another game of the same team.
func (r *GameRepository) BackToBackCounts(ctx context.Context, season string) (map[string]int, error) {
	query := `
		WITH team_dates AS (
			SELECT home_team_id AS team_id, game_date::date AS d
			FROM games WHERE season = $1 AND home_team_id IS NOT NULL
			UNION ALL
			SELECT road_team_id AS team_id, game_date::date AS d
			FROM games WHERE season = $1 AND road_team_id IS NOT NULL
		)
		SELECT cur.team_id, COUNT(*)
		FROM team_dates cur
		JOIN team_dates prev
		  ON prev.team_id = cur.team_id AND prev.d = cur.d - 1
		GROUP BY cur.team_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to count back-to-backs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var teamID string
		var n int
		if err := rows.Scan(&teamID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan back-to-back count: %w", err)
		}
		counts[teamID] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating back-to-back counts: %w", err)
	}

	return counts, nil
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}
	return ids, nil
}
