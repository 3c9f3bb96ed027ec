package models

import "database/sql"

// Play-by-play event message types as assigned by the upstream feed.
const (
	EventFieldGoalMade   = 1
	EventFieldGoalMissed = 2
	EventFreeThrow       = 3
	EventRebound         = 4
	EventTurnover        = 5
	EventFoul            = 6
	EventViolation       = 7
	EventSubstitution    = 8
	EventTimeout         = 9
	EventJumpBall        = 10
	EventEjection        = 11
	EventPeriodBegin     = 12
	EventPeriodEnd       = 13
	EventInstantReplay   = 18
)

// ScoreMarginTied is the sentinel the upstream feed uses for a tied score.
const ScoreMarginTied = "TIE"

// PlayByPlayEvent is one ordered row of a game's play log. Full order is
// (period ascending, play clock descending, id); PCTime is the in-period
// clock counting down.
type PlayByPlayEvent struct {
	ID                 int64          `db:"id"`
	GameID             string         `db:"game_id"`
	EventNum           int            `db:"event_num"`
	EventMsgType       int            `db:"event_msg_type"`
	EventMsgActionType int            `db:"event_msg_action_type"`
	Period             int            `db:"period"`
	WCTime             sql.NullString `db:"wc_time"`
	PCTime             sql.NullString `db:"pc_time"`
	HomeDescription    sql.NullString `db:"home_description"`
	NeutralDescription sql.NullString `db:"neutral_description"`
	VisitorDescription sql.NullString `db:"visitor_description"`
	Score              sql.NullString `db:"score"`
	ScoreMargin        sql.NullString `db:"score_margin"`
	Player1ID          sql.NullString `db:"player1_id"`
	Player2ID          sql.NullString `db:"player2_id"`
	Player3ID          sql.NullString `db:"player3_id"`
}

// IsScoringEvent reports whether the event can change the score margin.
// Free throw events cover both makes and misses; the margin column is only
// set when points were scored, so callers also check ScoreMargin validity.
func (e *PlayByPlayEvent) IsScoringEvent() bool {
	return e.EventMsgType == EventFieldGoalMade || e.EventMsgType == EventFreeThrow
}
