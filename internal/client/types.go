package client

import (
	"fmt"
	"strconv"
)

// The stats API returns every endpoint as named result sets: a header list
// plus untyped row arrays. Rows are mapped to typed structs here, at the
// deserialization boundary; a missing result set or column fails with
// DataShapeError instead of surfacing deep inside backfill logic.

type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

func (r *statsResponse) set(endpoint, name string) (*resultSet, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	return nil, &DataShapeError{Endpoint: endpoint, Detail: fmt.Sprintf("result set %q not present", name)}
}

// rowReader resolves row values by header name. Construction validates that
// every required column exists; value access is lenient (null cells read as
// zero values) because the upstream feed leaves many cells unset.
type rowReader struct {
	index map[string]int
	row   []interface{}
}

func newReader(endpoint string, rs *resultSet, required ...string) (func(row []interface{}) rowReader, error) {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[h] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, &DataShapeError{Endpoint: endpoint, Detail: fmt.Sprintf("column %q not present in %s", col, rs.Name)}
		}
	}
	return func(row []interface{}) rowReader {
		return rowReader{index: index, row: row}
	}, nil
}

func (r rowReader) cell(col string) interface{} {
	i, ok := r.index[col]
	if !ok || i >= len(r.row) {
		return nil
	}
	return r.row[i]
}

// Str returns the cell as a string; null reads as "".
func (r rowReader) Str(col string) string {
	switch v := r.cell(col).(type) {
	case string:
		return v
	case float64:
		// Numeric ids arrive as JSON numbers.
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// StrPtr returns the cell as *string, nil when unset. Used for columns
// where "absent" is meaningful (descriptions, score margin).
func (r rowReader) StrPtr(col string) *string {
	if v, ok := r.cell(col).(string); ok {
		return &v
	}
	return nil
}

// Int parses the cell leniently as an integer; null and unparsable cells
// read as zero.
func (r rowReader) Int(col string) int {
	switch v := r.cell(col).(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return 0
	default:
		return 0
	}
}

// IntPtr returns the cell as *int, nil when unset.
func (r rowReader) IntPtr(col string) *int {
	if v, ok := r.cell(col).(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

// Float reads the cell as a float; null reads as zero.
func (r rowReader) Float(col string) float64 {
	if v, ok := r.cell(col).(float64); ok {
		return v
	}
	return 0
}

// Bool derives a flag from the usual 0/1 convention; any non-zero,
// non-empty value is true.
func (r rowReader) Bool(col string) bool {
	switch v := r.cell(col).(type) {
	case float64:
		return v != 0
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	default:
		return false
	}
}

// ShotChartRow is one shot attempt from the shotchartdetail endpoint.
type ShotChartRow struct {
	GameID        string
	PlayerID      string
	TeamID        string
	Period        int
	MinRemaining  int
	SecRemaining  int
	EventType     string
	ActionType    string
	ShotType      string
	ShotZoneBasic string
	ShotZoneArea  string
	ShotZoneRange string
	ShotDistance  int
	LocX          int
	LocY          int
	Attempted     bool
	Made          bool
}

// TeamBoxRow is one team's line from the traditional box score.
type TeamBoxRow struct {
	GameID string
	TeamID string
	Min    string
	Pts    int
	Fgm    int
	Fga    int
	FgPct  float64
	Fg3m   int
	Fg3a   int
	Fg3Pct float64
	Ftm    int
	Fta    int
	FtPct  float64
	Oreb   int
	Dreb   int
	Reb    int
	Ast    int
	Stl    int
	Blk    int
	Tov    int
	Pf     int
}

// PlayerBoxRow is one player's line from the traditional box score.
type PlayerBoxRow struct {
	GameID        string
	TeamID        string
	PlayerID      string
	PlayerName    string
	NickName      string
	StartPosition string
	Comment       string
	Min           *string
	Pts           int
	Fgm           int
	Fga           *int
	FgPct         float64
	Fg3m          int
	Fg3a          int
	Fg3Pct        float64
	Ftm           int
	Fta           int
	FtPct         float64
	Oreb          int
	Dreb          int
	Reb           int
	Ast           int
	Stl           int
	Blk           int
	Tov           int
	Pf            int
	PlusMinus     *int
}

// BoxScore bundles both result sets of boxscoretraditionalv2.
type BoxScore struct {
	TeamStats   []TeamBoxRow
	PlayerStats []PlayerBoxRow
}

// PlayByPlayRow is one event from playbyplayv2. Player ids are numeric
// upstream with zero meaning "no participant in this slot".
type PlayByPlayRow struct {
	GameID             string
	EventNum           int
	EventMsgType       int
	EventMsgActionType int
	Period             int
	WCTime             *string
	PCTime             *string
	HomeDescription    *string
	NeutralDescription *string
	VisitorDescription *string
	Score              *string
	ScoreMargin        *string
	Player1ID          int64
	Player2ID          int64
	Player3ID          int64
}

// GameFinderRow is one game summary from leaguegamefinder. The finder
// returns one row per participating team; Matchup encodes home/road
// ("ABC vs. XYZ" with ABC at home, "ABC @ XYZ" with ABC on the road).
type GameFinderRow struct {
	SeasonID string
	GameID   string
	GameDate string
	Matchup  string
	TeamID   string
}

// PlayerListRow is one player from commonallplayers.
type PlayerListRow struct {
	PlayerID  string
	FirstName string
	LastName  string
	FullName  string
	IsActive  bool
}

// TeamYearsRow is one franchise from commonteamyears.
type TeamYearsRow struct {
	TeamID    string
	Abbr      string
	MinYear   string
	MaxYear   string
}

func decodeShotChart(resp *statsResponse) ([]ShotChartRow, error) {
	const endpoint = "shotchartdetail"
	rs, err := resp.set(endpoint, "Shot_Chart_Detail")
	if err != nil {
		return nil, err
	}
	read, err := newReader(endpoint, rs,
		"GAME_ID", "PLAYER_ID", "TEAM_ID", "PERIOD",
		"MINUTES_REMAINING", "SECONDS_REMAINING",
		"EVENT_TYPE", "ACTION_TYPE", "SHOT_TYPE",
		"SHOT_ZONE_BASIC", "SHOT_ZONE_AREA", "SHOT_ZONE_RANGE",
		"SHOT_DISTANCE", "LOC_X", "LOC_Y",
		"SHOT_ATTEMPTED_FLAG", "SHOT_MADE_FLAG",
	)
	if err != nil {
		return nil, err
	}

	rows := make([]ShotChartRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		r := read(raw)
		rows = append(rows, ShotChartRow{
			GameID:        r.Str("GAME_ID"),
			PlayerID:      r.Str("PLAYER_ID"),
			TeamID:        r.Str("TEAM_ID"),
			Period:        r.Int("PERIOD"),
			MinRemaining:  r.Int("MINUTES_REMAINING"),
			SecRemaining:  r.Int("SECONDS_REMAINING"),
			EventType:     r.Str("EVENT_TYPE"),
			ActionType:    r.Str("ACTION_TYPE"),
			ShotType:      r.Str("SHOT_TYPE"),
			ShotZoneBasic: r.Str("SHOT_ZONE_BASIC"),
			ShotZoneArea:  r.Str("SHOT_ZONE_AREA"),
			ShotZoneRange: r.Str("SHOT_ZONE_RANGE"),
			ShotDistance:  r.Int("SHOT_DISTANCE"),
			LocX:          r.Int("LOC_X"),
			LocY:          r.Int("LOC_Y"),
			Attempted:     r.Bool("SHOT_ATTEMPTED_FLAG"),
			Made:          r.Bool("SHOT_MADE_FLAG"),
		})
	}
	return rows, nil
}

func decodeBoxScore(resp *statsResponse) (*BoxScore, error) {
	const endpoint = "boxscoretraditionalv2"

	teamSet, err := resp.set(endpoint, "TeamStats")
	if err != nil {
		return nil, err
	}
	readTeam, err := newReader(endpoint, teamSet,
		"GAME_ID", "TEAM_ID", "MIN", "PTS", "FGM", "FGA", "FG_PCT",
		"FG3M", "FG3A", "FG3_PCT", "FTM", "FTA", "FT_PCT",
		"OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF",
	)
	if err != nil {
		return nil, err
	}

	playerSet, err := resp.set(endpoint, "PlayerStats")
	if err != nil {
		return nil, err
	}
	readPlayer, err := newReader(endpoint, playerSet,
		"GAME_ID", "TEAM_ID", "PLAYER_ID", "PLAYER_NAME", "START_POSITION",
		"COMMENT", "MIN", "PTS", "FGM", "FGA", "FG_PCT",
		"FG3M", "FG3A", "FG3_PCT", "FTM", "FTA", "FT_PCT",
		"OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF",
	)
	if err != nil {
		return nil, err
	}

	box := &BoxScore{
		TeamStats:   make([]TeamBoxRow, 0, len(teamSet.RowSet)),
		PlayerStats: make([]PlayerBoxRow, 0, len(playerSet.RowSet)),
	}

	for _, raw := range teamSet.RowSet {
		r := readTeam(raw)
		box.TeamStats = append(box.TeamStats, TeamBoxRow{
			GameID: r.Str("GAME_ID"),
			TeamID: r.Str("TEAM_ID"),
			Min:    r.Str("MIN"),
			Pts:    r.Int("PTS"),
			Fgm:    r.Int("FGM"),
			Fga:    r.Int("FGA"),
			FgPct:  r.Float("FG_PCT"),
			Fg3m:   r.Int("FG3M"),
			Fg3a:   r.Int("FG3A"),
			Fg3Pct: r.Float("FG3_PCT"),
			Ftm:    r.Int("FTM"),
			Fta:    r.Int("FTA"),
			FtPct:  r.Float("FT_PCT"),
			Oreb:   r.Int("OREB"),
			Dreb:   r.Int("DREB"),
			Reb:    r.Int("REB"),
			Ast:    r.Int("AST"),
			Stl:    r.Int("STL"),
			Blk:    r.Int("BLK"),
			Tov:    r.Int("TO"),
			Pf:     r.Int("PF"),
		})
	}

	for _, raw := range playerSet.RowSet {
		r := readPlayer(raw)
		box.PlayerStats = append(box.PlayerStats, PlayerBoxRow{
			GameID:        r.Str("GAME_ID"),
			TeamID:        r.Str("TEAM_ID"),
			PlayerID:      r.Str("PLAYER_ID"),
			PlayerName:    r.Str("PLAYER_NAME"),
			NickName:      r.Str("NICKNAME"),
			StartPosition: r.Str("START_POSITION"),
			Comment:       r.Str("COMMENT"),
			Min:           r.StrPtr("MIN"),
			Pts:           r.Int("PTS"),
			Fgm:           r.Int("FGM"),
			Fga:           r.IntPtr("FGA"),
			FgPct:         r.Float("FG_PCT"),
			Fg3m:          r.Int("FG3M"),
			Fg3a:          r.Int("FG3A"),
			Fg3Pct:        r.Float("FG3_PCT"),
			Ftm:           r.Int("FTM"),
			Fta:           r.Int("FTA"),
			FtPct:         r.Float("FT_PCT"),
			Oreb:          r.Int("OREB"),
			Dreb:          r.Int("DREB"),
			Reb:           r.Int("REB"),
			Ast:           r.Int("AST"),
			Stl:           r.Int("STL"),
			Blk:           r.Int("BLK"),
			Tov:           r.Int("TO"),
			Pf:            r.Int("PF"),
			PlusMinus:     r.IntPtr("PLUS_MINUS"),
		})
	}

	return box, nil
}

func decodePlayByPlay(resp *statsResponse) ([]PlayByPlayRow, error) {
	const endpoint = "playbyplayv2"
	rs, err := resp.set(endpoint, "PlayByPlay")
	if err != nil {
		return nil, err
	}
	read, err := newReader(endpoint, rs,
		"GAME_ID", "EVENTNUM", "EVENTMSGTYPE", "EVENTMSGACTIONTYPE",
		"PERIOD", "WCTIMESTRING", "PCTIMESTRING",
		"HOMEDESCRIPTION", "NEUTRALDESCRIPTION", "VISITORDESCRIPTION",
		"SCORE", "SCOREMARGIN", "PLAYER1_ID", "PLAYER2_ID", "PLAYER3_ID",
	)
	if err != nil {
		return nil, err
	}

	rows := make([]PlayByPlayRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		r := read(raw)
		rows = append(rows, PlayByPlayRow{
			GameID:             r.Str("GAME_ID"),
			EventNum:           r.Int("EVENTNUM"),
			EventMsgType:       r.Int("EVENTMSGTYPE"),
			EventMsgActionType: r.Int("EVENTMSGACTIONTYPE"),
			Period:             r.Int("PERIOD"),
			WCTime:             r.StrPtr("WCTIMESTRING"),
			PCTime:             r.StrPtr("PCTIMESTRING"),
			HomeDescription:    r.StrPtr("HOMEDESCRIPTION"),
			NeutralDescription: r.StrPtr("NEUTRALDESCRIPTION"),
			VisitorDescription: r.StrPtr("VISITORDESCRIPTION"),
			Score:              r.StrPtr("SCORE"),
			ScoreMargin:        r.StrPtr("SCOREMARGIN"),
			Player1ID:          int64(r.Int("PLAYER1_ID")),
			Player2ID:          int64(r.Int("PLAYER2_ID")),
			Player3ID:          int64(r.Int("PLAYER3_ID")),
		})
	}
	return rows, nil
}

func decodeGameFinder(resp *statsResponse) ([]GameFinderRow, error) {
	const endpoint = "leaguegamefinder"
	rs, err := resp.set(endpoint, "LeagueGameFinderResults")
	if err != nil {
		return nil, err
	}
	read, err := newReader(endpoint, rs, "SEASON_ID", "GAME_ID", "GAME_DATE", "MATCHUP", "TEAM_ID")
	if err != nil {
		return nil, err
	}

	rows := make([]GameFinderRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		r := read(raw)
		rows = append(rows, GameFinderRow{
			SeasonID: r.Str("SEASON_ID"),
			GameID:   r.Str("GAME_ID"),
			GameDate: r.Str("GAME_DATE"),
			Matchup:  r.Str("MATCHUP"),
			TeamID:   r.Str("TEAM_ID"),
		})
	}
	return rows, nil
}

func decodePlayerList(resp *statsResponse) ([]PlayerListRow, error) {
	const endpoint = "commonallplayers"
	rs, err := resp.set(endpoint, "CommonAllPlayers")
	if err != nil {
		return nil, err
	}
	read, err := newReader(endpoint, rs, "PERSON_ID", "DISPLAY_FIRST_LAST", "ROSTERSTATUS")
	if err != nil {
		return nil, err
	}

	rows := make([]PlayerListRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		r := read(raw)
		full := r.Str("DISPLAY_FIRST_LAST")
		first, last := splitName(full)
		rows = append(rows, PlayerListRow{
			PlayerID:  r.Str("PERSON_ID"),
			FirstName: first,
			LastName:  last,
			FullName:  full,
			IsActive:  r.Int("ROSTERSTATUS") == 1,
		})
	}
	return rows, nil
}

func decodeTeamYears(resp *statsResponse) ([]TeamYearsRow, error) {
	const endpoint = "commonteamyears"
	rs, err := resp.set(endpoint, "TeamYears")
	if err != nil {
		return nil, err
	}
	read, err := newReader(endpoint, rs, "TEAM_ID", "ABBREVIATION", "MIN_YEAR", "MAX_YEAR")
	if err != nil {
		return nil, err
	}

	rows := make([]TeamYearsRow, 0, len(rs.RowSet))
	for _, raw := range rs.RowSet {
		r := read(raw)
		rows = append(rows, TeamYearsRow{
			TeamID:  r.Str("TEAM_ID"),
			Abbr:    r.Str("ABBREVIATION"),
			MinYear: r.Str("MIN_YEAR"),
			MaxYear: r.Str("MAX_YEAR"),
		})
	}
	return rows, nil
}

func splitName(full string) (first, last string) {
	for i := 0; i < len(full); i++ {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
