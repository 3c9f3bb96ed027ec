package client

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/metrics"
)

// Retrier runs fetch operations under bounded exponential backoff: waits of
// InitialWait, doubling per attempt, capped at MaxWait, for up to
// MaxAttempts attempts total.
//
// Every error is retried, including ones classified permanent. That mirrors
// the behavior the backfill pipeline has always had; tightening it to skip
// permanent errors would change the externally observable retry count, so
// the classification is only used by callers after exhaustion.
type Retrier struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration

	// wait is swappable so tests can observe backoff without sleeping.
	wait func(ctx context.Context, d time.Duration) error
}

// NewRetrier builds a Retrier with the standard policy: 10 attempts,
// 1s initial wait, 60s cap (delays 1,2,4,8,16,32,60,60,60).
func NewRetrier(maxAttempts int, initial, max time.Duration) *Retrier {
	return &Retrier{
		MaxAttempts: maxAttempts,
		InitialWait: initial,
		MaxWait:     max,
		wait:        sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn until it succeeds or the attempt budget is exhausted. The
// terminal error wraps ErrRetriesExhausted so callers can tell a spent
// budget from a single failed attempt.
func (r *Retrier) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	delay := r.InitialWait

	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == r.MaxAttempts {
			break
		}

		log.Info().
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Err(lastErr).
			Msg("Fetch failed, retrying after backoff")
		metrics.RecordFetchRetry(op)

		if err := r.wait(ctx, delay); err != nil {
			return err
		}

		delay *= 2
		if delay > r.MaxWait {
			delay = r.MaxWait
		}
	}

	return &ExhaustedError{Op: op, Attempts: r.MaxAttempts, Last: lastErr}
}

// RetryingClient wraps Client fetches with a Retrier. It is the only
// component that talks to the network boundary on behalf of the backfill
// executor.
type RetryingClient struct {
	c *Client
	r *Retrier
}

// NewRetryingClient binds a client to a retry policy.
func NewRetryingClient(c *Client, r *Retrier) *RetryingClient {
	return &RetryingClient{c: c, r: r}
}

// ShotChartDetail is Client.ShotChartDetail under the retry policy.
func (rc *RetryingClient) ShotChartDetail(ctx context.Context, teamID, playerID, gameID string) ([]ShotChartRow, error) {
	var rows []ShotChartRow
	err := rc.r.Do(ctx, "shotchartdetail", func(ctx context.Context) error {
		var err error
		rows, err = rc.c.ShotChartDetail(ctx, teamID, playerID, gameID)
		return err
	})
	return rows, err
}

// BoxScoreTraditional is Client.BoxScoreTraditional under the retry policy.
func (rc *RetryingClient) BoxScoreTraditional(ctx context.Context, gameID string) (*BoxScore, error) {
	var box *BoxScore
	err := rc.r.Do(ctx, "boxscoretraditionalv2", func(ctx context.Context) error {
		var err error
		box, err = rc.c.BoxScoreTraditional(ctx, gameID)
		return err
	})
	return box, err
}

// PlayByPlay is Client.PlayByPlay under the retry policy.
func (rc *RetryingClient) PlayByPlay(ctx context.Context, gameID string) ([]PlayByPlayRow, error) {
	var rows []PlayByPlayRow
	err := rc.r.Do(ctx, "playbyplayv2", func(ctx context.Context) error {
		var err error
		rows, err = rc.c.PlayByPlay(ctx, gameID)
		return err
	})
	return rows, err
}

// LeagueGameFinder is Client.LeagueGameFinder under the retry policy.
func (rc *RetryingClient) LeagueGameFinder(ctx context.Context, season, seasonType string) ([]GameFinderRow, error) {
	var rows []GameFinderRow
	err := rc.r.Do(ctx, "leaguegamefinder", func(ctx context.Context) error {
		var err error
		rows, err = rc.c.LeagueGameFinder(ctx, season, seasonType)
		return err
	})
	return rows, err
}

// CommonAllPlayers is Client.CommonAllPlayers under the retry policy.
func (rc *RetryingClient) CommonAllPlayers(ctx context.Context) ([]PlayerListRow, error) {
	var rows []PlayerListRow
	err := rc.r.Do(ctx, "commonallplayers", func(ctx context.Context) error {
		var err error
		rows, err = rc.c.CommonAllPlayers(ctx)
		return err
	})
	return rows, err
}

// TeamYears is Client.TeamYears under the retry policy.
func (rc *RetryingClient) TeamYears(ctx context.Context) ([]TeamYearsRow, error) {
	var rows []TeamYearsRow
	err := rc.r.Do(ctx, "commonteamyears", func(ctx context.Context) error {
		var err error
		rows, err = rc.c.TeamYears(ctx)
		return err
	})
	return rows, err
}
