package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/backfill"
	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/config"
	"github.com/xidui/funba/internal/metrics"
	"github.com/xidui/funba/internal/repository"
	"github.com/xidui/funba/internal/streaks"
)

// Scheduler manages the background loops of the worker:
// - Periodic reconciliation: plan under-filled work and backfill it
// - Nightly recomputation of season metrics and pity-loss sweeps
type Scheduler struct {
	cfg      *config.Config
	db       *repository.Database
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}

	shots  *backfill.ShotBackfiller
	detail *backfill.GameDetailBackfiller
	pbp    *backfill.PlayByPlayBackfiller
	engine *streaks.Engine
	pity   *streaks.Detector
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, api *client.RetryingClient, db *repository.Database, redisCache *cache.RedisCache) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		db:       db,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
		shots:    backfill.NewShotBackfiller(db, api, redisCache),
		detail:   backfill.NewGameDetailBackfiller(db, api, redisCache),
		pbp:      backfill.NewPlayByPlayBackfiller(db, api, redisCache),
		engine:   streaks.NewEngine(db.Shots, db.SeasonMetrics),
		pity:     streaks.NewDetector(db),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.NightlyMetricsCron, func() {
		log.Info().Msg("Running nightly metrics recomputation...")
		if err := s.recomputeMetrics(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly metrics recomputation failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly metrics: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyMetricsCron).
		Msg("Nightly metrics recomputation scheduled")

	interval := time.Duration(s.cfg.ReconcileInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	log.Info().
		Dur("interval", interval).
		Bool("commit", s.cfg.ReconcileCommit).
		Msg("Reconciliation loop started")

	go s.reconcileLoop(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// reconcileLoop runs reconciliation on every tick until stopped.
func (s *Scheduler) reconcileLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping reconciliation loop")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping reconciliation loop")
			return
		case <-s.ticker.C:
			if err := s.Reconcile(ctx); err != nil {
				log.Error().Err(err).Msg("Reconciliation pass failed")
			}
		}
	}
}

// Reconcile plans every outstanding backfill and runs it through the
// executor. Detail fills run before shot fills so the reference counts the
// shot planner compares against are as fresh as possible.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	start := time.Now()

	detailTasks, err := s.detail.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan detail backfill: %w", err)
	}

	pbpTasks, err := s.pbp.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan play-by-play backfill: %w", err)
	}

	opts := backfill.Options{
		Concurrency: s.cfg.BackfillConcurrency,
		Commit:      s.cfg.ReconcileCommit,
	}

	tasks := make([]backfill.Task, 0, len(detailTasks)+len(pbpTasks))
	tasks = append(tasks, detailTasks...)
	tasks = append(tasks, pbpTasks...)
	backfill.Run(ctx, tasks, opts)

	shotTasks, err := s.shots.Plan(ctx, "", "")
	if err != nil {
		return fmt.Errorf("failed to plan shot backfill: %w", err)
	}
	backfill.Run(ctx, shotTasks, opts)

	s.updateOutstandingGauges(ctx)

	log.Info().
		Dur("duration", time.Since(start)).
		Msg("Reconciliation pass complete")

	return nil
}

// recomputeMetrics is the nightly job: fresh season metrics for every
// shooter, then a pity-loss sweep over newly completed games.
func (s *Scheduler) recomputeMetrics(ctx context.Context) error {
	if err := s.engine.ComputeAll(ctx); err != nil {
		return fmt.Errorf("failed to recompute season metrics: %w", err)
	}

	if _, _, err := s.pity.Sweep(ctx); err != nil {
		return fmt.Errorf("pity loss sweep failed: %w", err)
	}

	return nil
}

func (s *Scheduler) updateOutstandingGauges(ctx context.Context) {
	shots, details, events, err := s.db.Reconcile.OutstandingCounts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to update outstanding work gauges")
		return
	}

	metrics.OutstandingWork.WithLabelValues("shots").Set(float64(shots))
	metrics.OutstandingWork.WithLabelValues("detail").Set(float64(details))
	metrics.OutstandingWork.WithLabelValues("pbp").Set(float64(events))
}
