package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xidui/funba/internal/models"
)

func TestSeasonMetricsRepository_UpsertOverwrites(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	defer db.Pool.Exec(ctx,
		`DELETE FROM player_season_metrics WHERE player_id = '999999902'`)

	row := &models.PlayerSeasonMetrics{
		PlayerID: "999999902", TeamID: "1610612744", Season: "22015",
		ShotAttempt: 6, ShotMade: 2,
		ThreePointerAttempt: 6, ThreePointerMade: 2,
		ThreePointerAttemptAfterOneMiss: 2, ThreePointerMadeAfterOneMiss: 1,
		ThreePointerAttemptAfterTwoMiss: 2, ThreePointerMadeAfterTwoMiss: 1,
	}
	require.NoError(t, db.SeasonMetrics.Upsert(ctx, row))

	got, err := db.SeasonMetrics.GetByKey(ctx, row.PlayerID, row.TeamID, row.Season)
	require.NoError(t, err)
	assert.Equal(t, 6, got.ShotAttempt)
	assert.Equal(t, 2, got.ThreePointerAttemptAfterOneMiss)

	// Recomputation overwrites the partition wholesale.
	row.ShotAttempt = 10
	row.ThreePointerAttemptAfterTwoMiss = 4
	require.NoError(t, db.SeasonMetrics.Upsert(ctx, row))

	got, err = db.SeasonMetrics.GetByKey(ctx, row.PlayerID, row.TeamID, row.Season)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ShotAttempt)
	assert.Equal(t, 4, got.ThreePointerAttemptAfterTwoMiss)

	_, err = db.SeasonMetrics.GetByKey(ctx, row.PlayerID, row.TeamID, "21990")
	assert.Error(t, err)
}
