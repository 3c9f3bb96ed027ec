package models

import "time"

// PlayerSeasonMetrics holds streak-conditioned shooting aggregates for one
// (player, team, season) partition. The after-made counters cover all field
// goal attempts; the after-miss counters cover three-point attempts only.
// Rows are a pure function of the ordered shot stream and are overwritten
// wholesale on recomputation.
type PlayerSeasonMetrics struct {
	PlayerID string `db:"player_id"`
	TeamID   string `db:"team_id"`
	Season   string `db:"season"`

	ShotAttempt          int `db:"shot_attempt"`
	ShotMade             int `db:"shot_made"`
	ShotAttemptAfterMade int `db:"shot_attempt_after_made"`
	ShotMadeAfterMade    int `db:"shot_made_after_made"`

	ThreePointerAttempt             int `db:"three_pointer_attempt"`
	ThreePointerMade                int `db:"three_pointer_made"`
	ThreePointerAttemptAfterOneMiss int `db:"three_pointer_attempt_after_one_miss"`
	ThreePointerMadeAfterOneMiss    int `db:"three_pointer_made_after_one_miss"`
	ThreePointerAttemptAfterTwoMiss int `db:"three_pointer_attempt_after_two_miss"`
	ThreePointerMadeAfterTwoMiss    int `db:"three_pointer_made_after_two_miss"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
