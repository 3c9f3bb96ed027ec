package models

import "database/sql"

// Team represents an NBA franchise
type Team struct {
	ID              int            `db:"id"`
	TeamID          string         `db:"team_id"`
	FullName        string         `db:"full_name"`
	Abbr            string         `db:"abbr"`
	NickName        string         `db:"nick_name"`
	City            string         `db:"city"`
	State           string         `db:"state"`
	YearFounded     sql.NullInt32  `db:"year_founded"`
	Active          bool           `db:"active"`
	IsLegacy        bool           `db:"is_legacy"`
	CanonicalTeamID sql.NullString `db:"canonical_team_id"`
	StartSeason     sql.NullString `db:"start_season"`
	EndSeason       sql.NullString `db:"end_season"`
}
