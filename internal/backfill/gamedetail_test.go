package backfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/models"
)

func sampleBox() *client.BoxScore {
	return &client.BoxScore{
		TeamStats: []client.TeamBoxRow{
			{GameID: "g1", TeamID: "home", Min: "240:00", Pts: 110},
			{GameID: "g1", TeamID: "road", Min: "240:00", Pts: 102},
		},
	}
}

func TestBuildTeamRows(t *testing.T) {
	rows := buildTeamRows(sampleBox(), "home")
	require.Len(t, rows, 2)

	byTeam := map[string]models.TeamGameStats{}
	for _, r := range rows {
		byTeam[r.TeamID] = r
	}

	assert.False(t, byTeam["home"].OnRoad)
	assert.True(t, byTeam["home"].Win)
	assert.True(t, byTeam["road"].OnRoad)
	assert.False(t, byTeam["road"].Win)
	assert.Equal(t, 240, byTeam["home"].Min)
}

func TestBuildTeamRows_UnresolvedHomeLeavesRoadFlagsUnset(t *testing.T) {
	rows := buildTeamRows(sampleBox(), "")
	for _, r := range rows {
		assert.False(t, r.OnRoad, "without a resolved home side nobody is marked road")
	}
}

func TestDeriveGame(t *testing.T) {
	game := &models.Game{GameID: "g1"}
	rows := buildTeamRows(sampleBox(), "home")

	derived, ok := deriveGame(game, rows, "home")
	require.True(t, ok)

	assert.Equal(t, "home", derived.HomeTeamID.String)
	assert.Equal(t, "road", derived.RoadTeamID.String)
	assert.Equal(t, int32(110), derived.HomeTeamScore.Int32)
	assert.Equal(t, int32(102), derived.RoadTeamScore.Int32)
	assert.Equal(t, "home", derived.WinningTeamID.String)
}

func TestDeriveGame_RequiresBothSides(t *testing.T) {
	game := &models.Game{GameID: "g1"}
	rows := buildTeamRows(sampleBox(), "home")

	_, ok := deriveGame(game, rows[:1], "home")
	assert.False(t, ok, "one team line is not enough to derive the parent")

	_, ok = deriveGame(game, rows, "")
	assert.False(t, ok, "unresolved home side leaves the parent untouched")
}

func TestBuildPlayerRows(t *testing.T) {
	fga := 26
	plus := 15
	box := &client.BoxScore{
		PlayerStats: []client.PlayerBoxRow{
			{GameID: "g1", TeamID: "home", PlayerID: "p1", StartPosition: "G",
				Min: strptr("34:12"), Pts: 40, Fga: &fga, PlusMinus: &plus},
			{GameID: "g1", TeamID: "home", PlayerID: "p2",
				Comment: "DNP - Coach's Decision"},
		},
	}

	rows, starters := buildPlayerRows(box)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, starters)

	assert.True(t, rows[0].Starter)
	assert.Equal(t, 34, rows[0].Min)
	assert.Equal(t, 12, rows[0].Sec)
	assert.True(t, rows[0].Fga.Valid)
	assert.Equal(t, int32(26), rows[0].Fga.Int32)

	assert.False(t, rows[1].Starter)
	assert.False(t, rows[1].Fga.Valid, "null attempt count survives normalization")
	assert.Zero(t, rows[1].Min)
}
