package backfill

import (
	"context"

	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/models"
	"github.com/xidui/funba/internal/repository"
)

// stubWriter creates placeholder player rows for ids referenced by event
// data before the player itself has been ingested. Each write is its own
// atomic statement, outside the item transaction, so a concurrent stub from
// another worker never fails the caller's batch. The redis cache
// short-circuits ids confirmed present recently; cache errors degrade to a
// database check.
type stubWriter struct {
	db    *repository.Database
	cache *cache.RedisCache
}

func (w stubWriter) ensure(ctx context.Context, playerID string) error {
	if playerID == "" || playerID == "0" {
		return nil
	}
	if w.cache.PlayerKnown(ctx, playerID) {
		return nil
	}

	if err := w.db.Players.EnsureStub(ctx, playerID); err != nil {
		return err
	}
	w.cache.MarkPlayerKnown(ctx, playerID)
	return nil
}

// ensureNamed is like ensure but carries names from a box-score row, so a
// player first seen in a box score gets a usable row rather than a bare id.
func (w stubWriter) ensureNamed(ctx context.Context, player *models.Player) error {
	if player.PlayerID == "" || player.PlayerID == "0" {
		return nil
	}
	if w.cache.PlayerKnown(ctx, player.PlayerID) {
		return nil
	}

	if err := w.db.Players.InsertIfAbsent(ctx, player); err != nil {
		return err
	}
	w.cache.MarkPlayerKnown(ctx, player.PlayerID)
	return nil
}
