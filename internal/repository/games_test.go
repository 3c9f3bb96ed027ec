package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_SeedAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const gameID = "0021500779"
	defer db.Pool.Exec(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)

	date := time.Date(2015, 10, 27, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Games.Seed(ctx, gameID, "22015", date, "GSW vs. NOP"))

	game, err := db.Games.GetByGameID(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, "22015", game.Season.String)
	assert.Equal(t, "GSW vs. NOP", game.Matchup.String)
	assert.False(t, game.PityLoss.Valid, "flag starts underived")
	assert.False(t, game.IsDetailDerived())

	// Re-seeding the same game is safe.
	require.NoError(t, db.Games.Seed(ctx, gameID, "22015", date, "GSW vs. NOP"))

	ids, err := db.Games.ListBySeason(ctx, "22015")
	require.NoError(t, err)
	assert.Contains(t, ids, gameID)
}

func TestGameRepository_SetPityLoss(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const gameID = "0021500780"
	defer db.Pool.Exec(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)

	require.NoError(t, db.Games.EnsureExists(ctx, gameID))
	require.NoError(t, db.Games.SetPityLoss(ctx, gameID, false))

	game, err := db.Games.GetByGameID(ctx, gameID)
	require.NoError(t, err)
	require.True(t, game.PityLoss.Valid, "an explicit false is stored, not null")
	assert.False(t, game.PityLoss.Bool)

	err = db.Games.SetPityLoss(ctx, "does-not-exist", true)
	assert.Error(t, err)
}

func TestPlayerRepository_EnsureStubIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const playerID = "999999901"
	defer db.Pool.Exec(ctx, `DELETE FROM players WHERE player_id = $1`, playerID)

	require.NoError(t, db.Players.EnsureStub(ctx, playerID))
	require.NoError(t, db.Players.EnsureStub(ctx, playerID), "second stub write is a no-op")

	exists, err := db.Players.Exists(ctx, playerID)
	require.NoError(t, err)
	assert.True(t, exists)
}
