// Command backfill runs one reconciliation-driven backfill batch and exits.
// With -commit=false every item stages its writes and rolls them back, which
// previews the batch without touching the tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/backfill"
	"github.com/xidui/funba/internal/cache"
	"github.com/xidui/funba/internal/client"
	"github.com/xidui/funba/internal/config"
	"github.com/xidui/funba/internal/repository"
)

func main() {
	var (
		kind        = flag.String("type", "shots", "work type: shots, detail, pbp, season, seed")
		gameID      = flag.String("game", "", "restrict to one game id (shots, detail, pbp)")
		playerID    = flag.String("player", "", "restrict to one player id (shots)")
		season      = flag.String("season", "", "season to ingest, e.g. 2015-16 (season)")
		seasonType  = flag.String("season-type", client.SeasonTypeRegular, "season type (season)")
		commit      = flag.Bool("commit", false, "commit writes; false previews the batch")
		concurrency = flag.Int("concurrency", 0, "worker pool size; 0 uses BACKFILL_CONCURRENCY")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without stub cache")
	} else {
		defer redisCache.Close()
	}

	statsClient := client.New(cfg.StatsBaseURL, cfg.StatsTimeout)
	retrier := client.NewRetrier(cfg.RetryMaxAttempts, cfg.RetryInitialWait, cfg.RetryMaxWait)
	api := client.NewRetryingClient(statsClient, retrier)

	var tasks []backfill.Task
	switch *kind {
	case "shots":
		tasks, err = backfill.NewShotBackfiller(db, api, redisCache).Plan(ctx, *gameID, *playerID)
	case "detail":
		b := backfill.NewGameDetailBackfiller(db, api, redisCache)
		if *gameID != "" {
			tasks = []backfill.Task{b.TaskFor(*gameID)}
		} else {
			tasks, err = b.Plan(ctx)
		}
	case "pbp":
		b := backfill.NewPlayByPlayBackfiller(db, api, redisCache)
		if *gameID != "" {
			tasks = []backfill.Task{b.TaskFor(*gameID)}
		} else {
			tasks, err = b.Plan(ctx)
		}
	case "season":
		if *season == "" {
			log.Fatal().Msg("-season is required for type=season")
		}
		tasks, err = backfill.NewSeeder(db, api, redisCache).SeedSeason(ctx, *season, *seasonType)
	case "seed":
		seeder := backfill.NewSeeder(db, api, redisCache)
		if err := seeder.SeedTeams(ctx); err != nil {
			log.Fatal().Err(err).Msg("Team seeding failed")
		}
		if err := seeder.SeedPlayers(ctx); err != nil {
			log.Fatal().Err(err).Msg("Player seeding failed")
		}
		log.Info().Msg("Reference data seeded")
		return
	default:
		log.Fatal().Str("type", *kind).Msg("Unknown work type")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to plan backfill")
	}

	if len(tasks) == 0 {
		log.Info().Msg("Nothing to backfill. Exiting.")
		return
	}

	poolSize := *concurrency
	if poolSize <= 0 {
		poolSize = cfg.BackfillConcurrency
	}

	summary := backfill.Run(ctx, tasks, backfill.Options{
		Concurrency: poolSize,
		Commit:      *commit,
	})

	for _, o := range summary.Outcomes {
		if o.Status == backfill.StatusFailed {
			fmt.Printf("FAILED  %s %s: %v\n", o.Kind, o.Key, o.Err)
		}
	}
	fmt.Printf("filled=%d skipped=%d failed=%d commit=%v\n",
		summary.Filled, summary.Skipped, summary.Failed, *commit)
}
