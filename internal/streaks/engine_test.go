package streaks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xidui/funba/internal/models"
)

func three(game string, made bool) models.ShotRecord {
	return models.ShotRecord{
		GameID:        game,
		TeamID:        "1610612744",
		PlayerID:      "201939",
		Season:        "22015",
		ShotType:      models.ShotTypeThree,
		ShotAttempted: true,
		ShotMade:      made,
	}
}

func two(game string, made bool) models.ShotRecord {
	s := three(game, made)
	s.ShotType = "2PT Field Goal"
	return s
}

func TestAccumulate_MissStreakCounters(t *testing.T) {
	// One game: miss, miss, miss, make, miss, make (all threes).
	shots := []models.ShotRecord{
		three("g1", false),
		three("g1", false),
		three("g1", false),
		three("g1", true),
		three("g1", false),
		three("g1", true),
	}

	rows := Accumulate(shots)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 6, r.ThreePointerAttempt)
	assert.Equal(t, 2, r.ThreePointerMade)

	// Attempts 2 and 6 come after exactly one miss; attempt 6 is made.
	assert.Equal(t, 2, r.ThreePointerAttemptAfterOneMiss)
	assert.Equal(t, 1, r.ThreePointerMadeAfterOneMiss)

	// Attempts 3 and 4 come after two or more misses; attempt 4 is made.
	assert.Equal(t, 2, r.ThreePointerAttemptAfterTwoMiss)
	assert.Equal(t, 1, r.ThreePointerMadeAfterTwoMiss)
}

func TestAccumulate_MissCountSaturates(t *testing.T) {
	// Five straight misses then a make: the counter must not grow past two,
	// so the make still lands in the after-two bucket.
	shots := []models.ShotRecord{
		three("g1", false),
		three("g1", false),
		three("g1", false),
		three("g1", false),
		three("g1", false),
		three("g1", true),
	}

	rows := Accumulate(shots)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 4, r.ThreePointerAttemptAfterTwoMiss)
	assert.Equal(t, 1, r.ThreePointerMadeAfterTwoMiss)
	assert.Equal(t, 1, r.ThreePointerAttemptAfterOneMiss)
	assert.Equal(t, 0, r.ThreePointerMadeAfterOneMiss)
}

func TestAccumulate_MissStreakSurvivesGameBoundary(t *testing.T) {
	// Two misses to end game one; the first three of game two is still an
	// after-two-misses attempt.
	shots := []models.ShotRecord{
		three("g1", false),
		three("g1", false),
		three("g2", true),
	}

	rows := Accumulate(shots)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 1, r.ThreePointerAttemptAfterTwoMiss)
	assert.Equal(t, 1, r.ThreePointerMadeAfterTwoMiss)
}

func TestAccumulate_AfterMadeResetsAtGameBoundary(t *testing.T) {
	// A make ending game one must not make game two's first attempt an
	// after-made attempt.
	shots := []models.ShotRecord{
		two("g1", true),
		two("g2", true),
		two("g2", true),
	}

	rows := Accumulate(shots)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 3, r.ShotAttempt)
	assert.Equal(t, 3, r.ShotMade)
	assert.Equal(t, 1, r.ShotAttemptAfterMade)
	assert.Equal(t, 1, r.ShotMadeAfterMade)
}

func TestAccumulate_AfterMadeCoversAllShotsMissOnlyThrees(t *testing.T) {
	// A made two resets the three-point miss streak machine? It must not:
	// the miss counter only watches threes, while the after-made bit watches
	// every attempt.
	shots := []models.ShotRecord{
		three("g1", false),
		two("g1", true),
		three("g1", true),
	}

	rows := Accumulate(shots)
	require.Len(t, rows, 1)

	r := rows[0]
	// The final three still counts as after one miss.
	assert.Equal(t, 1, r.ThreePointerAttemptAfterOneMiss)
	assert.Equal(t, 1, r.ThreePointerMadeAfterOneMiss)
	// And it is an after-made attempt because the two before it went in.
	assert.Equal(t, 1, r.ShotAttemptAfterMade)
	assert.Equal(t, 1, r.ShotMadeAfterMade)
}

func TestAccumulate_PartitionBoundariesFlush(t *testing.T) {
	shots := []models.ShotRecord{
		// Season one, team A.
		{GameID: "g1", TeamID: "A", PlayerID: "p", Season: "22014", ShotType: models.ShotTypeThree, ShotMade: false},
		// Mid-season trade: same season, team B. New partition, streak resets.
		{GameID: "g2", TeamID: "B", PlayerID: "p", Season: "22014", ShotType: models.ShotTypeThree, ShotMade: true},
		// Next season.
		{GameID: "g3", TeamID: "B", PlayerID: "p", Season: "22015", ShotType: models.ShotTypeThree, ShotMade: true},
	}

	rows := Accumulate(shots)
	require.Len(t, rows, 3)

	// The make on team B is not "after one miss": the miss belongs to the
	// team A partition.
	assert.Equal(t, 0, rows[1].ThreePointerAttemptAfterOneMiss)

	assert.Equal(t, "A", rows[0].TeamID)
	assert.Equal(t, "B", rows[1].TeamID)
	assert.Equal(t, "22015", rows[2].Season)
}

func TestAccumulate_Idempotent(t *testing.T) {
	shots := []models.ShotRecord{
		three("g1", false),
		three("g1", true),
		two("g1", true),
		two("g2", false),
	}

	first := Accumulate(shots)
	second := Accumulate(shots)
	assert.Equal(t, first, second, "same stream must produce identical rows")
}

func TestAccumulate_Empty(t *testing.T) {
	assert.Empty(t, Accumulate(nil))
}
