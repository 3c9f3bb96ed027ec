package backfill

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/models"
	"github.com/xidui/funba/internal/repository"
)

// PlayByPlayBackfiller fills games that have no event rows yet.
type PlayByPlayBackfiller struct {
	db    *repository.Database
	api   *client.RetryingClient
	stubs stubWriter
}

// NewPlayByPlayBackfiller wires the backfiller to its store, API and stub cache.
func NewPlayByPlayBackfiller(db *repository.Database, api *client.RetryingClient, c *cache.RedisCache) *PlayByPlayBackfiller {
	return &PlayByPlayBackfiller{
		db:    db,
		api:   api,
		stubs: stubWriter{db: db, cache: c},
	}
}

// Plan returns one task per game missing event rows. Seasons without
// upstream play-by-play are excluded by the planning query.
func (b *PlayByPlayBackfiller) Plan(ctx context.Context) ([]Task, error) {
	gameIDs, err := b.db.Reconcile.GamesMissingPlayByPlay(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(gameIDs))
	for _, id := range gameIDs {
		tasks = append(tasks, &pbpTask{b: b, gameID: id})
	}

	log.Info().Int("games", len(tasks)).Msg("Play-by-play backfill planned")
	return tasks, nil
}

// TaskFor builds a play-by-play task for one known game id.
func (b *PlayByPlayBackfiller) TaskFor(gameID string) Task {
	return &pbpTask{b: b, gameID: gameID}
}

type pbpTask struct {
	b      *PlayByPlayBackfiller
	gameID string
}

func (t *pbpTask) Kind() string { return "pbp" }
func (t *pbpTask) Key() string  { return t.gameID }

func (t *pbpTask) Run(ctx context.Context, commit bool) (Status, error) {
	has, err := t.b.db.PlayByPlay.HasGame(ctx, t.gameID)
	if err != nil {
		return StatusFailed, err
	}
	if has {
		log.Debug().Str("game_id", t.gameID).Msg("Play-by-play already present, skipping")
		return StatusSkipped, nil
	}

	rows, err := t.b.api.PlayByPlay(ctx, t.gameID)
	if err != nil {
		return StatusFailed, err
	}

	// Events reference up to three participants each; stub every distinct
	// id before inserting so foreign keys always resolve.
	seen := make(map[int64]bool)
	for _, r := range rows {
		for _, id := range [3]int64{r.Player1ID, r.Player2ID, r.Player3ID} {
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true
			if err := t.b.stubs.ensure(ctx, strconv.FormatInt(id, 10)); err != nil {
				return StatusFailed, err
			}
		}
	}

	events := make([]*models.PlayByPlayEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, &models.PlayByPlayEvent{
			GameID:             r.GameID,
			EventNum:           r.EventNum,
			EventMsgType:       r.EventMsgType,
			EventMsgActionType: r.EventMsgActionType,
			Period:             r.Period,
			WCTime:             nullStr(r.WCTime),
			PCTime:             nullStr(r.PCTime),
			HomeDescription:    nullStr(r.HomeDescription),
			NeutralDescription: nullStr(r.NeutralDescription),
			VisitorDescription: nullStr(r.VisitorDescription),
			Score:              nullStr(r.Score),
			ScoreMargin:        nullStr(r.ScoreMargin),
			Player1ID:          playerRef(r.Player1ID),
			Player2ID:          playerRef(r.Player2ID),
			Player3ID:          playerRef(r.Player3ID),
		})
	}

	err = t.b.db.RunTx(ctx, commit, func(tx pgx.Tx) error {
		return t.b.db.PlayByPlay.InsertBatchTx(ctx, tx, events)
	})
	if err != nil {
		return StatusFailed, err
	}

	log.Info().
		Str("game_id", t.gameID).
		Int("events", len(events)).
		Bool("commit", commit).
		Msg("Play-by-play filled")

	return StatusFilled, nil
}

// playerRef converts the feed's numeric participant id, where zero means
// "no participant in this slot", to a nullable string reference.
func playerRef(id int64) sql.NullString {
	if id == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strconv.FormatInt(id, 10), Valid: true}
}
