package streaks

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xidui/funba/internal/models"
)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestAuditScore_CleanStream(t *testing.T) {
	events := []models.PlayByPlayEvent{
		{EventMsgType: models.EventFieldGoalMade, EventNum: 1,
			HomeDescription: ns("Curry 26' 3PT Jump Shot (3 PTS)"),
			Score:           ns("0 - 3")},
		{EventMsgType: models.EventFieldGoalMade, EventNum: 2,
			VisitorDescription: ns("James Layup (2 PTS)"),
			Score:              ns("2 - 3")},
		{EventMsgType: models.EventFreeThrow, EventNum: 3,
			HomeDescription: ns("Curry Free Throw 1 of 1 (4 PTS)"),
			Score:           ns("2 - 4")},
		{EventMsgType: models.EventFreeThrow, EventNum: 4,
			VisitorDescription: ns("MISS James Free Throw 1 of 2")},
	}

	assert.Empty(t, AuditScore(events))
}

func TestAuditScore_DetectsDrift(t *testing.T) {
	events := []models.PlayByPlayEvent{
		{EventMsgType: models.EventFieldGoalMade, EventNum: 1,
			HomeDescription: ns("Jump Shot (2 PTS)"),
			Score:           ns("0 - 2")},
		// Score column jumps by 3 but the description says 2 points.
		{EventMsgType: models.EventFieldGoalMade, EventNum: 2,
			HomeDescription: ns("Jump Shot (5 PTS)"),
			Score:           ns("0 - 5")},
	}

	mismatches := AuditScore(events)
	require.Len(t, mismatches, 1)
	assert.Equal(t, 2, mismatches[0].EventNum)
	assert.Equal(t, 4, mismatches[0].Expected)
	assert.Equal(t, 5, mismatches[0].Actual)
}

func TestAuditScore_IgnoresUnsetScoreCells(t *testing.T) {
	events := []models.PlayByPlayEvent{
		{EventMsgType: models.EventRebound, EventNum: 1},
		{EventMsgType: models.EventFieldGoalMade, EventNum: 2,
			HomeDescription: ns("Dunk (2 PTS)")},
	}

	assert.Empty(t, AuditScore(events))
}

func TestParseScoreTotal(t *testing.T) {
	total, ok := parseScoreTotal("45 - 50")
	assert.True(t, ok)
	assert.Equal(t, 95, total)

	_, ok = parseScoreTotal("garbage")
	assert.False(t, ok)
}
