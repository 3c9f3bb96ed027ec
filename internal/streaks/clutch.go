package streaks

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/metrics"
	"github.com/xidui/funba/internal/models"
	"github.com/xidui/funba/internal/repository"
)

// clutchWindowSeconds is the final stretch of a period that counts as
// clutch time: one full shot clock.
const clutchWindowSeconds = 24

// ClutchLoss reports whether the game was still undecided inside the final
// shot clock of the fourth period or overtime: some scoring event in that
// window found the game tied, coming out of a tie, or with the lead flipped
// since the previous scoring event.
//
// Events must arrive in replay order. Only made field goals and free throw
// events in period four or later with a populated score margin qualify; the
// margin sentinel "TIE" reads as zero. The scan stops at the first hit; a
// clean full scan is an explicit false, never an unknown.
func ClutchLoss(events []models.PlayByPlayEvent) bool {
	hasPrev := false
	var prev int

	for i := range events {
		ev := &events[i]
		if ev.Period < 4 || !ev.IsScoringEvent() {
			continue
		}
		if !ev.ScoreMargin.Valid || ev.ScoreMargin.String == "" {
			continue
		}

		cur := parseMargin(ev.ScoreMargin.String)

		if secs, ok := parseClock(ev.PCTime.String); ev.PCTime.Valid && ok && secs <= clutchWindowSeconds {
			if cur == 0 || (hasPrev && (prev == 0 || cur*prev < 0)) {
				return true
			}
		}

		prev, hasPrev = cur, true
	}

	return false
}

func parseMargin(raw string) int {
	if raw == models.ScoreMarginTied {
		return 0
	}
	n, _ := strconv.Atoi(raw)
	return n
}

// parseClock converts a "m:ss" period clock to remaining seconds.
func parseClock(raw string) (int, bool) {
	m, s, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return mins*60 + secs, true
}

// Detector derives and stores the clutch-loss flag for games.
type Detector struct {
	db *repository.Database
}

// NewDetector wires the detector to the store.
func NewDetector(db *repository.Database) *Detector {
	return &Detector{db: db}
}

// FlagGame scans one game's stored play-by-play and writes the flag.
func (d *Detector) FlagGame(ctx context.Context, gameID string) (bool, error) {
	events, err := d.db.PlayByPlay.GameEventsOrdered(ctx, gameID)
	if err != nil {
		return false, err
	}

	flagged := ClutchLoss(events)
	if err := d.db.Games.SetPityLoss(ctx, gameID, flagged); err != nil {
		return false, err
	}

	metrics.RecordPityFlag(flagged)
	return flagged, nil
}

// Sweep flags every game whose clutch-loss state has not been derived yet
// and whose play-by-play is ready to scan.
func (d *Detector) Sweep(ctx context.Context) (flagged, scanned int, err error) {
	gameIDs, err := d.db.Games.ListPityUnset(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, id := range gameIDs {
		if ctx.Err() != nil {
			return flagged, scanned, ctx.Err()
		}

		hit, err := d.FlagGame(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("game_id", id).Msg("Pity loss scan failed")
			continue
		}
		scanned++
		if hit {
			flagged++
		}
	}

	log.Info().
		Int("scanned", scanned).
		Int("flagged", flagged).
		Msg("Pity loss sweep complete")

	return flagged, scanned, nil
}
