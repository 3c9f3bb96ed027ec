package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/models"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates a team by its natural key
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (
			team_id, full_name, abbr, nick_name, city, state,
			year_founded, active, is_legacy, canonical_team_id,
			start_season, end_season
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (team_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			abbr = EXCLUDED.abbr,
			nick_name = EXCLUDED.nick_name,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			year_founded = EXCLUDED.year_founded,
			active = EXCLUDED.active,
			is_legacy = EXCLUDED.is_legacy,
			canonical_team_id = EXCLUDED.canonical_team_id,
			start_season = EXCLUDED.start_season,
			end_season = EXCLUDED.end_season
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		team.TeamID, team.FullName, team.Abbr, team.NickName, team.City, team.State,
		team.YearFounded, team.Active, team.IsLegacy, team.CanonicalTeamID,
		team.StartSeason, team.EndSeason,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	log.Debug().
		Str("team_id", team.TeamID).
		Str("abbr", team.Abbr).
		Msg("Team upserted")

	return nil
}

// GetByTeamID retrieves a team by its upstream id
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID string) (*models.Team, error) {
	query := `
		SELECT id, team_id, full_name, abbr, nick_name, city, state,
		       year_founded, active, is_legacy, canonical_team_id,
		       start_season, end_season
		FROM teams
		WHERE team_id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.ID, &team.TeamID, &team.FullName, &team.Abbr, &team.NickName,
		&team.City, &team.State, &team.YearFounded, &team.Active, &team.IsLegacy,
		&team.CanonicalTeamID, &team.StartSeason, &team.EndSeason,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: team_id=%s", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// CanonicalIDsByAbbr returns the canonical team ids that have carried the
// given abbreviation. Legacy franchises can map one abbreviation to several
// ids, so callers get the full candidate list.
func (r *TeamRepository) CanonicalIDsByAbbr(ctx context.Context, abbr string) ([]string, error) {
	query := `
		SELECT COALESCE(canonical_team_id, team_id)
		FROM teams
		WHERE abbr = $1
	`

	rows, err := r.db.Pool.Query(ctx, query, abbr)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by abbr: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return ids, nil
}
