package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xidui/funba/internal/models"
)

func seedReconcileFixture(t *testing.T, db *Database, ctx context.Context) {
	t.Helper()

	require.NoError(t, db.Games.EnsureExists(ctx, "0021500777"))
	require.NoError(t, db.Players.EnsureStub(ctx, "201939"))
	require.NoError(t, db.Players.EnsureStub(ctx, "2544"))

	// Two box lines: one player expects 10 attempts, the other 4.
	err := db.RunTx(ctx, true, func(tx pgx.Tx) error {
		for _, ps := range []*models.PlayerGameStats{
			{GameID: "0021500777", TeamID: "1610612744", PlayerID: "201939",
				Fga: sql.NullInt32{Int32: 10, Valid: true}},
			{GameID: "0021500777", TeamID: "1610612739", PlayerID: "2544",
				Fga: sql.NullInt32{Int32: 4, Valid: true}},
		} {
			if err := db.GameStats.InsertPlayerStatsTx(ctx, tx, ps); err != nil {
				return err
			}
		}

		// Fully stored shots for the second player only.
		shots := make([]*models.ShotRecord, 0, 4)
		for i := 0; i < 4; i++ {
			shots = append(shots, &models.ShotRecord{
				GameID: "0021500777", TeamID: "1610612739", PlayerID: "2544",
				Season: "22015", ShotAttempted: true,
			})
		}
		return db.Shots.InsertBatchTx(ctx, tx, shots)
	})
	require.NoError(t, err)
}

func cleanupReconcileFixture(db *Database, ctx context.Context) {
	db.Pool.Exec(ctx, `DELETE FROM shot_records WHERE game_id = '0021500777'`)
	db.Pool.Exec(ctx, `DELETE FROM player_game_stats WHERE game_id = '0021500777'`)
	db.Pool.Exec(ctx, `DELETE FROM games WHERE game_id = '0021500777'`)
}

func TestUnfilledShotScopes(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	defer cleanupReconcileFixture(db, ctx)

	seedReconcileFixture(t, db, ctx)

	scopes, err := db.Reconcile.UnfilledShotScopes(ctx, "0021500777", "")
	require.NoError(t, err)

	// Only the under-filled key comes back: the filled player is complete
	// and keys with no box line at all never appear.
	require.Len(t, scopes, 1)
	assert.Equal(t, models.ShotScope{
		GameID:   "0021500777",
		PlayerID: "201939",
		TeamID:   "1610612744",
	}, scopes[0])
}

func TestUnfilledShotScopes_PlayerFilter(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	defer cleanupReconcileFixture(db, ctx)

	seedReconcileFixture(t, db, ctx)

	scopes, err := db.Reconcile.UnfilledShotScopes(ctx, "0021500777", "2544")
	require.NoError(t, err)
	assert.Empty(t, scopes, "the filtered player is fully stored")
}

func TestIsScopeFilled(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	defer cleanupReconcileFixture(db, ctx)

	seedReconcileFixture(t, db, ctx)

	filled, err := db.Reconcile.IsScopeFilled(ctx, models.ShotScope{
		GameID: "0021500777", PlayerID: "2544", TeamID: "1610612739",
	})
	require.NoError(t, err)
	assert.True(t, filled)

	filled, err = db.Reconcile.IsScopeFilled(ctx, models.ShotScope{
		GameID: "0021500777", PlayerID: "201939", TeamID: "1610612744",
	})
	require.NoError(t, err)
	assert.False(t, filled)
}

func TestCountByScope(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	defer cleanupReconcileFixture(db, ctx)

	seedReconcileFixture(t, db, ctx)

	n, err := db.Shots.CountByScope(ctx, models.ShotScope{
		GameID: "0021500777", PlayerID: "2544", TeamID: "1610612739",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = db.Shots.CountByScope(ctx, models.ShotScope{
		GameID: "0021500777", PlayerID: "201939", TeamID: "1610612744",
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGamesMissingDetail(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const gameID = "0021500778"
	defer db.Pool.Exec(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)

	require.NoError(t, db.Games.EnsureExists(ctx, gameID))

	missing, err := db.Reconcile.GamesMissingDetail(ctx)
	require.NoError(t, err)
	assert.Contains(t, missing, gameID)
}
