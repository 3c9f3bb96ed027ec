package backfill

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/models"
	"github.com/xidui/funba/internal/repository"
)

// Seeder ingests the static reference data (teams, players) and season
// schedules the backfillers hang their work off.
type Seeder struct {
	db     *repository.Database
	api    *client.RetryingClient
	detail *GameDetailBackfiller
	pbp    *PlayByPlayBackfiller
}

// NewSeeder wires the seeder and the per-game backfillers it drives.
func NewSeeder(db *repository.Database, api *client.RetryingClient, c *cache.RedisCache) *Seeder {
	return &Seeder{
		db:     db,
		api:    api,
		detail: NewGameDetailBackfiller(db, api, c),
		pbp:    NewPlayByPlayBackfiller(db, api, c),
	}
}

// SeedTeams upserts the franchise list. Every team also gets a player row
// with is_team set, because the feed attributes team rebounds and turnovers
// to the team id in player slots.
func (s *Seeder) SeedTeams(ctx context.Context) error {
	rows, err := s.api.TeamYears(ctx)
	if err != nil {
		return err
	}

	currentYear := strconv.Itoa(time.Now().Year())
	for _, row := range rows {
		team := &models.Team{
			TeamID:      row.TeamID,
			Abbr:        row.Abbr,
			Active:      row.MaxYear >= currentYear,
			StartSeason: sql.NullString{String: row.MinYear, Valid: row.MinYear != ""},
			EndSeason:   sql.NullString{String: row.MaxYear, Valid: row.MaxYear != ""},
		}
		if err := s.db.Teams.Upsert(ctx, team); err != nil {
			return err
		}

		teamAsPlayer := &models.Player{
			PlayerID: row.TeamID,
			FullName: row.Abbr,
			IsTeam:   true,
		}
		if err := s.db.Players.InsertIfAbsent(ctx, teamAsPlayer); err != nil {
			return err
		}
	}

	log.Info().Int("teams", len(rows)).Msg("Teams seeded")
	return nil
}

// SeedPlayers upserts the full player list with names and roster status.
// Stub rows created earlier by event backfills get their names here.
func (s *Seeder) SeedPlayers(ctx context.Context) error {
	rows, err := s.api.CommonAllPlayers(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		player := &models.Player{
			PlayerID:  row.PlayerID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			FullName:  row.FullName,
			IsActive:  row.IsActive,
		}
		if err := s.db.Players.Upsert(ctx, player); err != nil {
			return err
		}
	}

	log.Info().Int("players", len(rows)).Msg("Players seeded")
	return nil
}

// SeedSeason ingests one season's schedule and returns the detail and
// play-by-play tasks for its games. The finder returns one row per
// participating team; the home side's row ("X vs. Y") is preferred for the
// stored matchup so home is always first.
func (s *Seeder) SeedSeason(ctx context.Context, season, seasonType string) ([]Task, error) {
	rows, err := s.api.LeagueGameFinder(ctx, season, seasonType)
	if err != nil {
		return nil, err
	}

	type seedRow struct {
		seasonID string
		date     string
		matchup  string
	}
	games := make(map[string]seedRow, len(rows)/2)
	var order []string

	for _, row := range rows {
		_, seen := games[row.GameID]
		if !seen {
			order = append(order, row.GameID)
		}
		if seen && !isHomeMatchup(row.Matchup) {
			continue
		}
		games[row.GameID] = seedRow{
			seasonID: row.SeasonID,
			date:     row.GameDate,
			matchup:  row.Matchup,
		}
	}

	var tasks []Task
	for _, gameID := range order {
		g := games[gameID]

		date, ok := parseGameDate(g.date)
		if !ok {
			log.Warn().Str("game_id", gameID).Str("game_date", g.date).Msg("Unparsable game date, seeding without it")
		}
		if err := s.db.Games.Seed(ctx, gameID, g.seasonID, date, g.matchup); err != nil {
			return nil, err
		}

		tasks = append(tasks, s.detail.TaskFor(gameID))
		if playByPlayEra(g.seasonID) {
			tasks = append(tasks, s.pbp.TaskFor(gameID))
		}
	}

	log.Info().
		Str("season", season).
		Str("season_type", seasonType).
		Int("games", len(order)).
		Int("tasks", len(tasks)).
		Msg("Season seeded")

	return tasks, nil
}

// isHomeMatchup reports whether the finder row belongs to the home side.
// "X vs. Y" is the home row; "X @ Y" is the road row.
func isHomeMatchup(matchup string) bool {
	return strings.Contains(matchup, " vs. ")
}
