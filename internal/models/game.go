package models

import (
	"database/sql"
	"time"
)

// Game represents one NBA game. Scores, teams and the winner are derived
// fields written exactly once per game by the detail backfill after both
// team box rows are known; PityLoss is derived from the play-by-play stream.
type Game struct {
	GameID        string         `db:"game_id"`
	Season        sql.NullString `db:"season"`
	GameDate      sql.NullTime   `db:"game_date"`
	Matchup       sql.NullString `db:"matchup"`
	HomeTeamID    sql.NullString `db:"home_team_id"`
	RoadTeamID    sql.NullString `db:"road_team_id"`
	WinningTeamID sql.NullString `db:"winning_team_id"`
	HomeTeamScore sql.NullInt32  `db:"home_team_score"`
	RoadTeamScore sql.NullInt32  `db:"road_team_score"`
	PityLoss      sql.NullBool   `db:"pity_loss"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsDetailDerived reports whether the game-level derived fields have been
// written. Games where this is false are picked up by a later
// reconciliation pass.
func (g *Game) IsDetailDerived() bool {
	return g.HomeTeamID.Valid && g.RoadTeamID.Valid &&
		g.HomeTeamScore.Valid && g.RoadTeamScore.Valid
}
