package streaks

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/metrics"
	"github.com/xidui/funba/internal/models"
)

// ShotSource supplies a player's stored shots in metric order
// (season, team, game, insertion order). The shot repository satisfies it.
type ShotSource interface {
	PlayerShotsOrdered(ctx context.Context, playerID string) ([]models.ShotRecord, error)
	DistinctPlayerIDs(ctx context.Context) ([]string, error)
}

// MetricsSink persists computed partition rows. The season metrics
// repository satisfies it.
type MetricsSink interface {
	Upsert(ctx context.Context, m *models.PlayerSeasonMetrics) error
}

// Engine recomputes streak-conditioned season aggregates from the shot
// stream. Output rows are a pure function of the ordered stream: a re-run
// over unchanged shots writes identical rows.
type Engine struct {
	shots ShotSource
	sink  MetricsSink
}

// NewEngine wires the engine to its shot source and metrics sink.
func NewEngine(shots ShotSource, sink MetricsSink) *Engine {
	return &Engine{shots: shots, sink: sink}
}

// partitionState carries both streak machines for one
// (player, team, season) partition.
//
// The miss counter covers three-point attempts only, saturates at two and
// survives game boundaries: a shooter who ended one game on two misses is
// still "after two misses" on the next game's first three.
//
// The after-make bit covers all field goal attempts and resets at every
// game boundary: a make never carries into the next game.
type partitionState struct {
	row       models.PlayerSeasonMetrics
	missCount int
	prevMade  bool
	game      string
}

func (p *partitionState) observe(s *models.ShotRecord) {
	if s.GameID != p.game {
		p.game = s.GameID
		p.prevMade = false
	}

	p.row.ShotAttempt++
	if s.ShotMade {
		p.row.ShotMade++
	}

	if p.prevMade {
		p.row.ShotAttemptAfterMade++
		if s.ShotMade {
			p.row.ShotMadeAfterMade++
		}
	}
	p.prevMade = s.ShotMade

	if !s.IsThree() {
		return
	}

	p.row.ThreePointerAttempt++
	if s.ShotMade {
		p.row.ThreePointerMade++
	}

	switch p.missCount {
	case 1:
		p.row.ThreePointerAttemptAfterOneMiss++
		if s.ShotMade {
			p.row.ThreePointerMadeAfterOneMiss++
		}
	case 2:
		p.row.ThreePointerAttemptAfterTwoMiss++
		if s.ShotMade {
			p.row.ThreePointerMadeAfterTwoMiss++
		}
	}

	if s.ShotMade {
		p.missCount = 0
	} else if p.missCount < 2 {
		p.missCount++
	}
}

// Accumulate folds an ordered shot stream into one metrics row per
// (player, team, season) partition. The input must already be in
// (season, team, game, id) order; partitions are detected by key change
// and the last one is flushed by the end-of-stream sentinel.
func Accumulate(shots []models.ShotRecord) []models.PlayerSeasonMetrics {
	var out []models.PlayerSeasonMetrics
	var cur *partitionState

	for i := range shots {
		s := &shots[i]
		if cur == nil || cur.row.PlayerID != s.PlayerID ||
			cur.row.TeamID != s.TeamID || cur.row.Season != s.Season {
			if cur != nil {
				out = append(out, cur.row)
			}
			cur = &partitionState{
				row: models.PlayerSeasonMetrics{
					PlayerID: s.PlayerID,
					TeamID:   s.TeamID,
					Season:   s.Season,
				},
			}
		}
		cur.observe(s)
	}

	if cur != nil {
		out = append(out, cur.row)
	}
	return out
}

// ComputePlayer recomputes and stores every partition row for one player.
func (e *Engine) ComputePlayer(ctx context.Context, playerID string) ([]models.PlayerSeasonMetrics, error) {
	shots, err := e.shots.PlayerShotsOrdered(ctx, playerID)
	if err != nil {
		metrics.RecordMetricRun("failed")
		return nil, err
	}

	rows := Accumulate(shots)
	for i := range rows {
		if err := e.sink.Upsert(ctx, &rows[i]); err != nil {
			metrics.RecordMetricRun("failed")
			return nil, err
		}
	}

	metrics.RecordMetricRun("ok")
	log.Info().
		Str("player_id", playerID).
		Int("shots", len(shots)).
		Int("partitions", len(rows)).
		Msg("Season metrics computed")

	return rows, nil
}

// ComputeAll recomputes metrics for every player with stored shots.
// One player's failure is logged and does not stop the rest.
func (e *Engine) ComputeAll(ctx context.Context) error {
	playerIDs, err := e.shots.DistinctPlayerIDs(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, id := range playerIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := e.ComputePlayer(ctx, id); err != nil {
			failed++
			log.Error().Err(err).Str("player_id", id).Msg("Metric computation failed for player")
		}
	}

	log.Info().
		Int("players", len(playerIDs)).
		Int("failed", failed).
		Msg("Season metrics recomputed for all players")

	return nil
}
