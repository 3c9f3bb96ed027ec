package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeShotChart(t *testing.T) {
	raw := `{
		"resource": "shotchartdetail",
		"resultSets": [{
			"name": "Shot_Chart_Detail",
			"headers": ["GAME_ID","PLAYER_ID","TEAM_ID","PERIOD","MINUTES_REMAINING","SECONDS_REMAINING","EVENT_TYPE","ACTION_TYPE","SHOT_TYPE","SHOT_ZONE_BASIC","SHOT_ZONE_AREA","SHOT_ZONE_RANGE","SHOT_DISTANCE","LOC_X","LOC_Y","SHOT_ATTEMPTED_FLAG","SHOT_MADE_FLAG"],
			"rowSet": [
				["0021500001", 201939, 1610612744, 1, 10, 25, "Made Shot", "Jump Shot", "3PT Field Goal", "Above the Break 3", "Center(C)", "24+ ft.", 26, 10, 250, 1, 1],
				["0021500001", 201939, 1610612744, 2, 3, 2, "Missed Shot", "Pullup Jump shot", "2PT Field Goal", "Mid-Range", "Left Side(L)", "16-24 ft.", 18, -120, 90, 1, 0]
			]
		}]
	}`

	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	rows, err := decodeShotChart(&resp)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "0021500001", first.GameID)
	assert.Equal(t, "201939", first.PlayerID, "numeric ids decode to strings")
	assert.Equal(t, "1610612744", first.TeamID)
	assert.Equal(t, "3PT Field Goal", first.ShotType)
	assert.Equal(t, 26, first.ShotDistance)
	assert.True(t, first.Made)

	second := rows[1]
	assert.False(t, second.Made)
	assert.True(t, second.Attempted)
	assert.Equal(t, -120, second.LocX)
}

func TestDecodeShotChart_MissingResultSet(t *testing.T) {
	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(`{"resultSets":[{"name":"Other","headers":[],"rowSet":[]}]}`), &resp))

	_, err := decodeShotChart(&resp)
	var shape *DataShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "shotchartdetail", shape.Endpoint)
}

func TestDecodeShotChart_MissingColumn(t *testing.T) {
	raw := `{"resultSets":[{
		"name": "Shot_Chart_Detail",
		"headers": ["GAME_ID","PLAYER_ID"],
		"rowSet": [["0021500001", 201939]]
	}]}`

	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	_, err := decodeShotChart(&resp)
	var shape *DataShapeError
	require.ErrorAs(t, err, &shape)
}

func TestDecodePlayByPlay_NullCells(t *testing.T) {
	raw := `{"resultSets":[{
		"name": "PlayByPlay",
		"headers": ["GAME_ID","EVENTNUM","EVENTMSGTYPE","EVENTMSGACTIONTYPE","PERIOD","WCTIMESTRING","PCTIMESTRING","HOMEDESCRIPTION","NEUTRALDESCRIPTION","VISITORDESCRIPTION","SCORE","SCOREMARGIN","PLAYER1_ID","PLAYER2_ID","PLAYER3_ID"],
		"rowSet": [
			["0021500001", 2, 1, 1, 1, "8:12 PM", "11:34", "Curry 3PT Jump Shot", null, null, "0 - 3", "3", 201939, 0, 0],
			["0021500001", 3, 4, 0, 1, null, "11:20", null, null, "James REBOUND", null, null, 2544, 0, 0]
		]
	}]}`

	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	rows, err := decodePlayByPlay(&resp)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	shot := rows[0]
	assert.Equal(t, 1, shot.EventMsgType)
	require.NotNil(t, shot.ScoreMargin)
	assert.Equal(t, "3", *shot.ScoreMargin)
	assert.Equal(t, int64(201939), shot.Player1ID)
	assert.Equal(t, int64(0), shot.Player2ID, "zero means empty participant slot")

	rebound := rows[1]
	assert.Nil(t, rebound.Score, "null cells decode to nil pointers")
	assert.Nil(t, rebound.HomeDescription)
	require.NotNil(t, rebound.VisitorDescription)
}

func TestDecodeBoxScore_NullableCells(t *testing.T) {
	raw := `{"resultSets":[
		{
			"name": "PlayerStats",
			"headers": ["GAME_ID","TEAM_ID","PLAYER_ID","PLAYER_NAME","NICKNAME","START_POSITION","COMMENT","MIN","PTS","FGM","FGA","FG_PCT","FG3M","FG3A","FG3_PCT","FTM","FTA","FT_PCT","OREB","DREB","REB","AST","STL","BLK","TO","PF","PLUS_MINUS"],
			"rowSet": [
				["0021500001", 1610612744, 201939, "Stephen Curry", "Steph", "G", "", "34:12", 40, 14, 26, 0.538, 7, 12, 0.583, 5, 5, 1.0, 0, 5, 5, 6, 2, 0, 3, 2, 15],
				["0021500001", 1610612744, 12345, "Bench Guy", "", "", "DNP - Coach's Decision", null, 0, 0, null, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, null]
			]
		},
		{
			"name": "TeamStats",
			"headers": ["GAME_ID","TEAM_ID","MIN","PTS","FGM","FGA","FG_PCT","FG3M","FG3A","FG3_PCT","FTM","FTA","FT_PCT","OREB","DREB","REB","AST","STL","BLK","TO","PF"],
			"rowSet": [
				["0021500001", 1610612744, "240:00", 111, 41, 86, 0.477, 12, 29, 0.414, 17, 21, 0.81, 9, 35, 44, 29, 8, 6, 15, 19]
			]
		}
	]}`

	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	box, err := decodeBoxScore(&resp)
	require.NoError(t, err)
	require.Len(t, box.TeamStats, 1)
	require.Len(t, box.PlayerStats, 2)

	curry := box.PlayerStats[0]
	require.NotNil(t, curry.Fga)
	assert.Equal(t, 26, *curry.Fga)
	require.NotNil(t, curry.Min)
	assert.Equal(t, "34:12", *curry.Min)
	require.NotNil(t, curry.PlusMinus)
	assert.Equal(t, 15, *curry.PlusMinus)

	dnp := box.PlayerStats[1]
	assert.Nil(t, dnp.Fga, "null attempt count stays null, it is not zero")
	assert.Nil(t, dnp.Min)
	assert.Nil(t, dnp.PlusMinus)
	assert.Equal(t, "DNP - Coach's Decision", dnp.Comment)

	team := box.TeamStats[0]
	assert.Equal(t, 111, team.Pts)
	assert.Equal(t, 86, team.Fga)
}

func TestDecodeGameFinder(t *testing.T) {
	raw := `{"resultSets":[{
		"name": "LeagueGameFinderResults",
		"headers": ["SEASON_ID","GAME_ID","GAME_DATE","MATCHUP","TEAM_ID"],
		"rowSet": [
			["22015", "0021500001", "2015-10-27", "GSW vs. NOP", 1610612744],
			["22015", "0021500001", "2015-10-27", "NOP @ GSW", 1610612740]
		]
	}]}`

	var resp statsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	rows, err := decodeGameFinder(&resp)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "GSW vs. NOP", rows[0].Matchup)
	assert.Equal(t, "1610612744", rows[0].TeamID)
	assert.Equal(t, "22015", rows[1].SeasonID)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Stephen Curry")
	assert.Equal(t, "Stephen", first)
	assert.Equal(t, "Curry", last)

	first, last = splitName("Nene")
	assert.Equal(t, "Nene", first)
	assert.Empty(t, last)

	first, last = splitName("Gary Payton II")
	assert.Equal(t, "Gary", first)
	assert.Equal(t, "Payton II", last)
}
