package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xidui/funba/internal/models"
)

func TestTeamRepository_UpsertAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	const teamID = "1610612799"
	defer db.Pool.Exec(ctx, `DELETE FROM teams WHERE team_id = $1`, teamID)

	team := &models.Team{
		TeamID:      teamID,
		FullName:    "Test Warriors",
		Abbr:        "TSW",
		NickName:    "Warriors",
		City:        "Testville",
		State:       "California",
		Active:      true,
		StartSeason: sql.NullString{String: "1946", Valid: true},
	}
	require.NoError(t, db.Teams.Upsert(ctx, team))

	got, err := db.Teams.GetByTeamID(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, "Test Warriors", got.FullName)
	assert.Equal(t, "TSW", got.Abbr)
	assert.True(t, got.Active)
	assert.False(t, got.CanonicalTeamID.Valid)

	// A second upsert overwrites in place.
	team.FullName = "Test Warriors Renamed"
	team.Active = false
	require.NoError(t, db.Teams.Upsert(ctx, team))

	got, err = db.Teams.GetByTeamID(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, "Test Warriors Renamed", got.FullName)
	assert.False(t, got.Active)

	_, err = db.Teams.GetByTeamID(ctx, "does-not-exist")
	assert.Error(t, err)
}

func TestTeamRepository_CanonicalIDsByAbbr(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	defer db.Pool.Exec(ctx, `DELETE FROM teams WHERE team_id IN ('900000001', '900000002')`)

	// A legacy franchise points its canonical id at the current one, so one
	// abbreviation can resolve to several candidates.
	require.NoError(t, db.Teams.Upsert(ctx, &models.Team{
		TeamID: "900000001", FullName: "Test Hornets", Abbr: "TCH", Active: true,
	}))
	require.NoError(t, db.Teams.Upsert(ctx, &models.Team{
		TeamID: "900000002", FullName: "Test Hornets (legacy)", Abbr: "TCH", IsLegacy: true,
		CanonicalTeamID: sql.NullString{String: "900000001", Valid: true},
	}))

	ids, err := db.Teams.CanonicalIDsByAbbr(ctx, "TCH")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"900000001", "900000001"}, ids,
		"legacy rows resolve to their canonical id")

	ids, err = db.Teams.CanonicalIDsByAbbr(ctx, "ZZZ")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
