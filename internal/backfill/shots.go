package backfill

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/models"
	"github.com/xidui/funba/internal/repository"
)

// ShotBackfiller fills (game, player, team) keys whose stored shot rows
// fall short of the attempt count in the box score.
type ShotBackfiller struct {
	db    *repository.Database
	api   *client.RetryingClient
	stubs stubWriter
}

// NewShotBackfiller wires the backfiller to its store, API and stub cache.
func NewShotBackfiller(db *repository.Database, api *client.RetryingClient, c *cache.RedisCache) *ShotBackfiller {
	return &ShotBackfiller{
		db:    db,
		api:   api,
		stubs: stubWriter{db: db, cache: c},
	}
}

// Plan asks the reconciliation query for under-filled keys and returns one
// task per key. Empty gameID or playerID leaves that dimension unfiltered.
func (b *ShotBackfiller) Plan(ctx context.Context, gameID, playerID string) ([]Task, error) {
	scopes, err := b.db.Reconcile.UnfilledShotScopes(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(scopes))
	for _, scope := range scopes {
		tasks = append(tasks, &shotTask{b: b, scope: scope})
	}

	log.Info().
		Str("game_id", gameID).
		Str("player_id", playerID).
		Int("scopes", len(tasks)).
		Msg("Shot backfill planned")

	return tasks, nil
}

type shotTask struct {
	b     *ShotBackfiller
	scope models.ShotScope
}

func (t *shotTask) Kind() string { return "shots" }
func (t *shotTask) Key() string  { return t.scope.Key() }

func (t *shotTask) Run(ctx context.Context, commit bool) (Status, error) {
	// Another worker may have filled the key since planning. The re-check is
	// cheap and keeps the expensive fetch off already complete keys.
	filled, err := t.b.db.Reconcile.IsScopeFilled(ctx, t.scope)
	if err != nil {
		return StatusFailed, err
	}
	if filled {
		log.Debug().Str("key", t.scope.Key()).Msg("Shot scope already filled, skipping")
		return StatusSkipped, nil
	}

	game, err := t.b.db.Games.GetByGameID(ctx, t.scope.GameID)
	if err != nil {
		return StatusFailed, err
	}

	rows, err := t.b.api.ShotChartDetail(ctx, t.scope.TeamID, t.scope.PlayerID, t.scope.GameID)
	if err != nil {
		return StatusFailed, err
	}

	if err := t.b.stubs.ensure(ctx, t.scope.PlayerID); err != nil {
		return StatusFailed, err
	}

	shots := make([]*models.ShotRecord, 0, len(rows))
	for _, r := range rows {
		if r.GameID != t.scope.GameID {
			continue
		}
		shots = append(shots, &models.ShotRecord{
			GameID:        r.GameID,
			TeamID:        r.TeamID,
			PlayerID:      r.PlayerID,
			Season:        game.Season.String,
			Period:        r.Period,
			Min:           r.MinRemaining,
			Sec:           r.SecRemaining,
			EventType:     r.EventType,
			ActionType:    r.ActionType,
			ShotType:      r.ShotType,
			ShotZoneBasic: r.ShotZoneBasic,
			ShotZoneArea:  r.ShotZoneArea,
			ShotZoneRange: r.ShotZoneRange,
			ShotDistance:  r.ShotDistance,
			LocX:          r.LocX,
			LocY:          r.LocY,
			ShotAttempted: r.Attempted,
			ShotMade:      r.Made,
		})
	}

	err = t.b.db.RunTx(ctx, commit, func(tx pgx.Tx) error {
		return t.b.db.Shots.InsertBatchTx(ctx, tx, shots)
	})
	if err != nil {
		return StatusFailed, err
	}

	log.Info().
		Str("key", t.scope.Key()).
		Int("shots", len(shots)).
		Bool("commit", commit).
		Msg("Shot scope filled")

	return StatusFilled, nil
}
