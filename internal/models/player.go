package models

// Player represents an NBA player. Rows created as stubs from play-by-play
// references carry only the player id; names are filled by a later seed pass.
type Player struct {
	PlayerID  string `db:"player_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	FullName  string `db:"full_name"`
	NickName  string `db:"nick_name"`
	IsActive  bool   `db:"is_active"`
	IsTeam    bool   `db:"is_team"`
}
