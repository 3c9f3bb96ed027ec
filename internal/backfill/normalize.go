package backfill

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Normalization helpers for the lenient upstream feed: absent cells read as
// zero values, clock strings come in more than one shape, and the matchup
// string is the only home/road signal the schedule carries.

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt32 {
	if p == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*p), Valid: true}
}

// parseMinutes splits a box-score MIN cell into whole minutes and seconds.
// Accepts "34:12", a bare "34", and the occasional fractional "34.5"; a nil
// or unparsable cell reads as zero playing time (DNP rows).
func parseMinutes(min *string) (m, s int) {
	if min == nil {
		return 0, 0
	}
	raw := strings.TrimSpace(*min)
	if raw == "" {
		return 0, 0
	}

	if i := strings.IndexByte(raw, ':'); i >= 0 {
		m, _ = strconv.Atoi(raw[:i])
		s, _ = strconv.Atoi(raw[i+1:])
		return m, s
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		m = int(f)
		s = int((f - float64(m)) * 60)
	}
	return m, s
}

// parseMatchup splits a schedule matchup string into home and road
// abbreviations. "GSW vs. LAL" puts GSW at home; "GSW @ LAL" puts GSW on
// the road.
func parseMatchup(matchup string) (homeAbbr, roadAbbr string, ok bool) {
	if left, right, found := strings.Cut(matchup, " vs. "); found {
		return strings.TrimSpace(left), strings.TrimSpace(right), true
	}
	if left, right, found := strings.Cut(matchup, " @ "); found {
		return strings.TrimSpace(right), strings.TrimSpace(left), true
	}
	return "", "", false
}

// parseGameDate handles both date shapes the finder has been seen returning.
func parseGameDate(raw string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// seasonYear extracts the starting year from a season id ("22015" → "2015").
// The leading digit encodes the season type.
func seasonYear(seasonID string) string {
	if len(seasonID) < 2 {
		return ""
	}
	return seasonID[1:]
}

// playByPlayEra reports whether the upstream feed carries play-by-play for
// the season. Nothing before the 1996-97 season has event data.
func playByPlayEra(seasonID string) bool {
	return seasonYear(seasonID) > "1995"
}
