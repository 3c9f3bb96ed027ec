package backfill

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/models"
	"github.com/xidui/funba/internal/repository"
)

// GameDetailBackfiller fills games that have no box-score rows yet. One
// task covers both team lines, every player line, and the game's derived
// fields (scores, winner, home/road), all in a single transaction.
type GameDetailBackfiller struct {
	db    *repository.Database
	api   *client.RetryingClient
	stubs stubWriter
}

// NewGameDetailBackfiller wires the backfiller to its store, API and stub cache.
func NewGameDetailBackfiller(db *repository.Database, api *client.RetryingClient, c *cache.RedisCache) *GameDetailBackfiller {
	return &GameDetailBackfiller{
		db:    db,
		api:   api,
		stubs: stubWriter{db: db, cache: c},
	}
}

// Plan returns one task per game missing box-score rows.
func (b *GameDetailBackfiller) Plan(ctx context.Context) ([]Task, error) {
	gameIDs, err := b.db.Reconcile.GamesMissingDetail(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(gameIDs))
	for _, id := range gameIDs {
		tasks = append(tasks, &detailTask{b: b, gameID: id})
	}

	log.Info().Int("games", len(tasks)).Msg("Game detail backfill planned")
	return tasks, nil
}

// TaskFor builds a detail task for one known game id.
func (b *GameDetailBackfiller) TaskFor(gameID string) Task {
	return &detailTask{b: b, gameID: gameID}
}

type detailTask struct {
	b      *GameDetailBackfiller
	gameID string
}

func (t *detailTask) Kind() string { return "detail" }
func (t *detailTask) Key() string  { return t.gameID }

func (t *detailTask) Run(ctx context.Context, commit bool) (Status, error) {
	has, err := t.b.db.GameStats.HasGameDetail(ctx, t.gameID)
	if err != nil {
		return StatusFailed, err
	}
	if has {
		log.Debug().Str("game_id", t.gameID).Msg("Game detail already present, skipping")
		return StatusSkipped, nil
	}

	game, err := t.b.db.Games.GetByGameID(ctx, t.gameID)
	if err != nil {
		return StatusFailed, err
	}

	box, err := t.b.api.BoxScoreTraditional(ctx, t.gameID)
	if err != nil {
		return StatusFailed, err
	}

	if len(box.TeamStats) != 2 {
		// Best effort: store whatever lines exist, leave derived fields for
		// a corrected upstream payload on a later pass.
		log.Warn().
			Str("game_id", t.gameID).
			Int("team_rows", len(box.TeamStats)).
			Msg("Box score does not have exactly two team lines")
	}

	homeID := t.resolveHomeTeam(ctx, game, box)

	teamRows := buildTeamRows(box, homeID)
	playerRows, starters := buildPlayerRows(box)
	if len(box.PlayerStats) > 0 && starters != 10 {
		log.Warn().
			Str("game_id", t.gameID).
			Int("starters", starters).
			Msg("Unexpected starter count in box score")
	}

	// Stub rows commit independently of the item transaction so that a
	// dry run still leaves valid player references for other items.
	for _, p := range box.PlayerStats {
		first, last := splitName(p.PlayerName)
		player := &models.Player{
			PlayerID:  p.PlayerID,
			FirstName: first,
			LastName:  last,
			FullName:  p.PlayerName,
			NickName:  p.NickName,
		}
		if err := t.b.stubs.ensureNamed(ctx, player); err != nil {
			return StatusFailed, err
		}
	}

	err = t.b.db.RunTx(ctx, commit, func(tx pgx.Tx) error {
		for i := range teamRows {
			if err := t.b.db.GameStats.InsertTeamStatsTx(ctx, tx, &teamRows[i]); err != nil {
				return err
			}
		}
		for i := range playerRows {
			if err := t.b.db.GameStats.InsertPlayerStatsTx(ctx, tx, &playerRows[i]); err != nil {
				return err
			}
		}

		if derived, ok := deriveGame(game, teamRows, homeID); ok {
			return t.b.db.Games.UpdateDetailTx(ctx, tx, derived)
		}
		return nil
	})
	if err != nil {
		return StatusFailed, err
	}

	log.Info().
		Str("game_id", t.gameID).
		Int("team_rows", len(teamRows)).
		Int("player_rows", len(playerRows)).
		Bool("commit", commit).
		Msg("Game detail filled")

	return StatusFilled, nil
}

// resolveHomeTeam maps the schedule's matchup string to the home team's id.
// Abbreviations are ambiguous across franchise history, so the candidates
// from the abbreviation lookup are intersected with the two team ids that
// actually played. An unresolvable matchup returns "" and the derived
// fields stay unset for a later pass.
func (t *detailTask) resolveHomeTeam(ctx context.Context, game *models.Game, box *client.BoxScore) string {
	if !game.Matchup.Valid {
		log.Warn().Str("game_id", t.gameID).Msg("Game has no matchup string, cannot resolve home team")
		return ""
	}

	homeAbbr, _, ok := parseMatchup(game.Matchup.String)
	if !ok {
		log.Warn().
			Str("game_id", t.gameID).
			Str("matchup", game.Matchup.String).
			Msg("Unrecognized matchup format")
		return ""
	}

	candidates, err := t.b.db.Teams.CanonicalIDsByAbbr(ctx, homeAbbr)
	if err != nil {
		log.Warn().Err(err).Str("game_id", t.gameID).Str("abbr", homeAbbr).Msg("Home team lookup failed")
		return ""
	}

	playing := make(map[string]bool, len(box.TeamStats))
	for _, row := range box.TeamStats {
		playing[row.TeamID] = true
	}

	var matched []string
	for _, id := range candidates {
		if playing[id] {
			matched = append(matched, id)
		}
	}

	if len(matched) != 1 {
		log.Warn().
			Str("game_id", t.gameID).
			Str("abbr", homeAbbr).
			Int("candidates", len(matched)).
			Msg("Home team abbreviation did not resolve to exactly one playing team")
		return ""
	}

	return matched[0]
}

func buildTeamRows(box *client.BoxScore, homeID string) []models.TeamGameStats {
	// Win flags need both scores; compute the max first.
	maxPts := 0
	for _, row := range box.TeamStats {
		if row.Pts > maxPts {
			maxPts = row.Pts
		}
	}

	rows := make([]models.TeamGameStats, 0, len(box.TeamStats))
	for _, row := range box.TeamStats {
		min, _ := parseMinutes(&row.Min)
		rows = append(rows, models.TeamGameStats{
			GameID: row.GameID,
			TeamID: row.TeamID,
			OnRoad: homeID != "" && row.TeamID != homeID,
			Win:    row.Pts == maxPts && row.Pts > 0,
			Min:    min,
			Pts:    row.Pts,
			Fgm:    row.Fgm,
			Fga:    row.Fga,
			FgPct:  row.FgPct,
			Fg3m:   row.Fg3m,
			Fg3a:   row.Fg3a,
			Fg3Pct: row.Fg3Pct,
			Ftm:    row.Ftm,
			Fta:    row.Fta,
			FtPct:  row.FtPct,
			Oreb:   row.Oreb,
			Dreb:   row.Dreb,
			Reb:    row.Reb,
			Ast:    row.Ast,
			Stl:    row.Stl,
			Blk:    row.Blk,
			Tov:    row.Tov,
			Pf:     row.Pf,
		})
	}
	return rows
}

func buildPlayerRows(box *client.BoxScore) (rows []models.PlayerGameStats, starters int) {
	rows = make([]models.PlayerGameStats, 0, len(box.PlayerStats))
	for _, p := range box.PlayerStats {
		starter := p.StartPosition != ""
		if starter {
			starters++
		}
		min, sec := parseMinutes(p.Min)
		rows = append(rows, models.PlayerGameStats{
			GameID:   p.GameID,
			TeamID:   p.TeamID,
			PlayerID: p.PlayerID,
			Comment:  p.Comment,
			Min:      min,
			Sec:      sec,
			Starter:  starter,
			Position: p.StartPosition,
			Pts:      p.Pts,
			Fgm:      p.Fgm,
			Fga:      nullInt(p.Fga),
			FgPct:    p.FgPct,
			Fg3m:     p.Fg3m,
			Fg3a:     p.Fg3a,
			Fg3Pct:   p.Fg3Pct,
			Ftm:      p.Ftm,
			Fta:      p.Fta,
			FtPct:    p.FtPct,
			Oreb:     p.Oreb,
			Dreb:     p.Dreb,
			Reb:      p.Reb,
			Ast:      p.Ast,
			Stl:      p.Stl,
			Blk:      p.Blk,
			Tov:      p.Tov,
			Pf:       p.Pf,
			Plus:     nullInt(p.PlusMinus),
		})
	}
	return rows, starters
}

// deriveGame computes the game-level fields once both sides are known.
// Written exactly once per game: the caller only reaches this when the box
// rows were absent.
func deriveGame(game *models.Game, teamRows []models.TeamGameStats, homeID string) (*models.Game, bool) {
	if homeID == "" || len(teamRows) != 2 {
		return nil, false
	}

	derived := *game
	for _, row := range teamRows {
		side := sql.NullInt32{Int32: int32(row.Pts), Valid: true}
		if row.TeamID == homeID {
			derived.HomeTeamID = sql.NullString{String: row.TeamID, Valid: true}
			derived.HomeTeamScore = side
		} else {
			derived.RoadTeamID = sql.NullString{String: row.TeamID, Valid: true}
			derived.RoadTeamScore = side
		}
		if row.Win {
			derived.WinningTeamID = sql.NullString{String: row.TeamID, Valid: true}
		}
	}

	return &derived, derived.IsDetailDerived()
}

func splitName(full string) (first, last string) {
	for i := 0; i < len(full); i++ {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
