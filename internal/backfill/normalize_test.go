package backfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestParseMinutes(t *testing.T) {
	m, s := parseMinutes(strptr("34:12"))
	assert.Equal(t, 34, m)
	assert.Equal(t, 12, s)

	m, s = parseMinutes(strptr("34"))
	assert.Equal(t, 34, m)
	assert.Equal(t, 0, s)

	m, s = parseMinutes(strptr("34.5"))
	assert.Equal(t, 34, m)
	assert.Equal(t, 30, s)

	m, s = parseMinutes(nil)
	assert.Zero(t, m)
	assert.Zero(t, s)

	m, s = parseMinutes(strptr(""))
	assert.Zero(t, m)
	assert.Zero(t, s)
}

func TestParseMatchup(t *testing.T) {
	home, road, ok := parseMatchup("GSW vs. NOP")
	assert.True(t, ok)
	assert.Equal(t, "GSW", home)
	assert.Equal(t, "NOP", road)

	home, road, ok = parseMatchup("NOP @ GSW")
	assert.True(t, ok)
	assert.Equal(t, "GSW", home, "the @ row lists the road team first")
	assert.Equal(t, "NOP", road)

	_, _, ok = parseMatchup("GSW-NOP")
	assert.False(t, ok)
}

func TestIsHomeMatchup(t *testing.T) {
	assert.True(t, isHomeMatchup("GSW vs. NOP"))
	assert.False(t, isHomeMatchup("NOP @ GSW"))
}

func TestParseGameDate(t *testing.T) {
	d, ok := parseGameDate("2015-10-27")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2015, 10, 27, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseGameDate("2015-10-27T19:30:00")
	assert.True(t, ok)
	assert.Equal(t, 19, d.Hour())

	_, ok = parseGameDate("27/10/2015")
	assert.False(t, ok)
}

func TestPlayByPlayEra(t *testing.T) {
	assert.True(t, playByPlayEra("22015"))
	assert.True(t, playByPlayEra("21996"))
	assert.False(t, playByPlayEra("21995"), "no event data before 1996-97")
	assert.False(t, playByPlayEra("21985"))
	assert.False(t, playByPlayEra(""))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullStr(nil).Valid)
	s := nullStr(strptr("TIE"))
	assert.True(t, s.Valid)
	assert.Equal(t, "TIE", s.String)

	assert.False(t, nullInt(nil).Valid)
	n := 7
	v := nullInt(&n)
	assert.True(t, v.Valid)
	assert.Equal(t, int32(7), v.Int32)
}
