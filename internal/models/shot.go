package models

// ShotRecord is one granular shot attempt tied to (game, player, team).
// Rows are append-only and only ever re-written by a corrective re-backfill.
type ShotRecord struct {
	ID            int64  `db:"id"`
	GameID        string `db:"game_id"`
	TeamID        string `db:"team_id"`
	PlayerID      string `db:"player_id"`
	Season        string `db:"season"`
	Period        int    `db:"period"`
	Min           int    `db:"min"`
	Sec           int    `db:"sec"`
	EventType     string `db:"event_type"`
	ActionType    string `db:"action_type"`
	ShotType      string `db:"shot_type"`
	ShotZoneBasic string `db:"shot_zone_basic"`
	ShotZoneArea  string `db:"shot_zone_area"`
	ShotZoneRange string `db:"shot_zone_range"`
	ShotDistance  int    `db:"shot_distance"`
	LocX          int    `db:"loc_x"`
	LocY          int    `db:"loc_y"`
	ShotAttempted bool   `db:"shot_attempted"`
	ShotMade      bool   `db:"shot_made"`
}

// ShotTypeThree is the upstream label for three-point attempts.
const ShotTypeThree = "3PT Field Goal"

// IsThree reports whether the attempt was a three-pointer.
func (s *ShotRecord) IsThree() bool {
	return s.ShotType == ShotTypeThree
}

// ShotScope identifies one unit of shot backfill work: a player's attempts
// for one team in one game.
type ShotScope struct {
	GameID   string
	PlayerID string
	TeamID   string
}

// Key returns a stable identifier for logging and batch summaries.
func (s ShotScope) Key() string {
	return s.GameID + "/" + s.PlayerID + "/" + s.TeamID
}
