package models

import "database/sql"

// TeamGameStats is one team's box-score line for one game.
type TeamGameStats struct {
	GameID string `db:"game_id"`
	TeamID string `db:"team_id"`
	OnRoad bool   `db:"on_road"`
	Win    bool   `db:"win"`
	Min    int    `db:"min"`
	Pts    int    `db:"pts"`
	Fgm    int    `db:"fgm"`
	Fga    int    `db:"fga"`
	FgPct  float64 `db:"fg_pct"`
	Fg3m   int    `db:"fg3m"`
	Fg3a   int    `db:"fg3a"`
	Fg3Pct float64 `db:"fg3_pct"`
	Ftm    int    `db:"ftm"`
	Fta    int    `db:"fta"`
	FtPct  float64 `db:"ft_pct"`
	Oreb   int    `db:"oreb"`
	Dreb   int    `db:"dreb"`
	Reb    int    `db:"reb"`
	Ast    int    `db:"ast"`
	Stl    int    `db:"stl"`
	Blk    int    `db:"blk"`
	Tov    int    `db:"tov"`
	Pf     int    `db:"pf"`
}

// PlayerGameStats is one player's box-score line for one game. Fga is the
// reference count the shot backfill reconciles shot_records against; it is
// nullable upstream and a null is treated as zero expected work.
type PlayerGameStats struct {
	GameID   string        `db:"game_id"`
	TeamID   string        `db:"team_id"`
	PlayerID string        `db:"player_id"`
	Comment  string        `db:"comment"`
	Min      int           `db:"min"`
	Sec      int           `db:"sec"`
	Starter  bool          `db:"starter"`
	Position string        `db:"position"`
	Pts      int           `db:"pts"`
	Fgm      int           `db:"fgm"`
	Fga      sql.NullInt32 `db:"fga"`
	FgPct    float64       `db:"fg_pct"`
	Fg3m     int           `db:"fg3m"`
	Fg3a     int           `db:"fg3a"`
	Fg3Pct   float64       `db:"fg3_pct"`
	Ftm      int           `db:"ftm"`
	Fta      int           `db:"fta"`
	FtPct    float64       `db:"ft_pct"`
	Oreb     int           `db:"oreb"`
	Dreb     int           `db:"dreb"`
	Reb      int           `db:"reb"`
	Ast      int           `db:"ast"`
	Stl      int           `db:"stl"`
	Blk      int           `db:"blk"`
	Tov      int           `db:"tov"`
	Pf       int           `db:"pf"`
	Plus     sql.NullInt32 `db:"plus"`
}
