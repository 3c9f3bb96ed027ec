// Command streaks recomputes streak-conditioned season metrics and derived
// game flags from already ingested data. It never talks to the upstream API.
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/config"
	"github.com/xidui/funba/internal/repository"
	"github.com/xidui/funba/internal/streaks"
)

func main() {
	var (
		playerID   = flag.String("player", "", "recompute metrics for one player id")
		all        = flag.Bool("all", false, "recompute metrics for every player with stored shots")
		threesOnly = flag.Bool("threes", false, "with -player, print only the three-point columns")
		pity       = flag.Bool("pity", false, "run a pity-loss sweep over unflagged games")
		audit      = flag.String("audit", "", "audit the score column of one game's play-by-play")
		b2b        = flag.String("b2b", "", "print per-team back-to-back game counts for a season id, e.g. 22015")
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

	ran := false

	if *playerID != "" {
		ran = true
		engine := streaks.NewEngine(db.Shots, db.SeasonMetrics)
		rows, err := engine.ComputePlayer(ctx, *playerID)
		if err != nil {
			log.Fatal().Err(err).Str("player_id", *playerID).Msg("Metric computation failed")
		}
		for _, r := range rows {
			if *threesOnly {
				fmt.Printf("%s %s %s: 3pt %d/%d (after 1 miss %d/%d, after 2 miss %d/%d)\n",
					r.PlayerID, r.Season, r.TeamID,
					r.ThreePointerMade, r.ThreePointerAttempt,
					r.ThreePointerMadeAfterOneMiss, r.ThreePointerAttemptAfterOneMiss,
					r.ThreePointerMadeAfterTwoMiss, r.ThreePointerAttemptAfterTwoMiss,
				)
				continue
			}
			fmt.Printf("%s %s %s: fg %d/%d (after made %d/%d), 3pt %d/%d (after 1 miss %d/%d, after 2 miss %d/%d)\n",
				r.PlayerID, r.Season, r.TeamID,
				r.ShotMade, r.ShotAttempt, r.ShotMadeAfterMade, r.ShotAttemptAfterMade,
				r.ThreePointerMade, r.ThreePointerAttempt,
				r.ThreePointerMadeAfterOneMiss, r.ThreePointerAttemptAfterOneMiss,
				r.ThreePointerMadeAfterTwoMiss, r.ThreePointerAttemptAfterTwoMiss,
			)
		}
	}

	if *all {
		ran = true
		engine := streaks.NewEngine(db.Shots, db.SeasonMetrics)
		if err := engine.ComputeAll(ctx); err != nil {
			log.Fatal().Err(err).Msg("Metric computation failed")
		}
	}

	if *pity {
		ran = true
		flagged, scanned, err := streaks.NewDetector(db).Sweep(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Pity loss sweep failed")
		}
		fmt.Printf("pity sweep: scanned=%d flagged=%d\n", scanned, flagged)
	}

	if *audit != "" {
		ran = true
		mismatches, err := streaks.NewScoreAuditor(db).AuditGame(ctx, *audit)
		if err != nil {
			log.Fatal().Err(err).Str("game_id", *audit).Msg("Score audit failed")
		}
		fmt.Printf("score audit %s: %d mismatches\n", *audit, len(mismatches))
	}

	if *b2b != "" {
		ran = true
		counts, err := db.Games.BackToBackCounts(ctx, *b2b)
		if err != nil {
			log.Fatal().Err(err).Str("season", *b2b).Msg("Back-to-back count failed")
		}
		for teamID, n := range counts {
			fmt.Printf("%s: %d back-to-backs\n", teamID, n)
		}
	}

	if !ran {
		flag.Usage()
	}
}
