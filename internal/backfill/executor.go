package backfill

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/metrics"
)

// Status is the outcome of one work item.
type Status string

const (
	// StatusFilled means the item fetched and stored missing rows.
	StatusFilled Status = "filled"
	// StatusSkipped means the item was already complete at run time.
	StatusSkipped Status = "skipped"
	// StatusFailed means the item errored; siblings are unaffected.
	StatusFailed Status = "failed"
)

// Task is one independent unit of backfill work. Run must be safe to
// execute concurrently with other tasks and must be idempotent: a re-run
// against an already filled target reports StatusSkipped.
type Task interface {
	// Kind labels the work type for metrics and logs (shots, detail, pbp).
	Kind() string
	// Key identifies the item within its kind.
	Key() string
	Run(ctx context.Context, commit bool) (Status, error)
}

// Options controls one executor batch.
type Options struct {
	// Concurrency bounds the worker pool; values below 1 mean serial.
	Concurrency int
	// Commit false stages every item's writes and rolls them back (dry run).
	Commit bool
}

// Outcome is one task's result within a Summary.
type Outcome struct {
	Kind   string
	Key    string
	Status Status
	Err    error
}

// Summary aggregates a batch. One failed item never aborts the batch;
// callers inspect Outcomes for the per-item detail.
type Summary struct {
	Filled   int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

// Run executes tasks through a bounded worker pool and returns the batch
// summary. Context cancellation stops launching new tasks; tasks already
// running observe the cancellation through their own context use.
func Run(ctx context.Context, tasks []Task, opts Options) *Summary {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	log.Info().
		Int("tasks", len(tasks)).
		Int("concurrency", concurrency).
		Bool("commit", opts.Commit).
		Msg("Starting backfill batch")

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	summary := &Summary{}

	for _, task := range tasks {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("Backfill batch interrupted, remaining tasks not started")
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			status, err := t.Run(ctx, opts.Commit)
			metrics.RecordBackfillItem(t.Kind(), string(status), time.Since(start).Seconds())

			if err != nil {
				metrics.RecordError("backfill", t.Kind())
				log.Warn().
					Str("kind", t.Kind()).
					Str("key", t.Key()).
					Err(err).
					Msg("Backfill item failed")
			}

			mu.Lock()
			defer mu.Unlock()
			switch status {
			case StatusFilled:
				summary.Filled++
			case StatusSkipped:
				summary.Skipped++
			default:
				summary.Failed++
			}
			summary.Outcomes = append(summary.Outcomes, Outcome{
				Kind:   t.Kind(),
				Key:    t.Key(),
				Status: status,
				Err:    err,
			})
		}(task)
	}

	wg.Wait()

	log.Info().
		Int("filled", summary.Filled).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Backfill batch finished")

	return summary
}
