package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchesWildcard(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 15, 0, 0, time.UTC)
	assert.True(t, Matches("* * * * *", now))
}

func TestMatchesLiteralMinuteAndHour(t *testing.T) {
	at := time.Date(2026, 7, 30, 9, 5, 0, 0, time.UTC)
	assert.True(t, Matches("5 9 * * *", at))
	assert.False(t, Matches("6 9 * * *", at))
}

func TestMatchesCommaList(t *testing.T) {
	at := time.Date(2026, 7, 30, 9, 15, 0, 0, time.UTC)
	assert.True(t, Matches("0,15,30,45 * * * *", at))
}

func TestMatchesRange(t *testing.T) {
	at := time.Date(2026, 7, 30, 14, 0, 0, 0, time.UTC)
	assert.True(t, Matches("0 9-17 * * *", at))
	assert.False(t, Matches("0 18-23 * * *", at))
}

func TestMatchesStep(t *testing.T) {
	at := time.Date(2026, 7, 30, 0, 20, 0, 0, time.UTC)
	assert.True(t, Matches("*/10 * * * *", at))
	at2 := time.Date(2026, 7, 30, 0, 25, 0, 0, time.UTC)
	assert.False(t, Matches("*/10 * * * *", at2))
}

func TestMatchesMalformedNeverPanics(t *testing.T) {
	now := time.Now()
	assert.False(t, Matches("", now))
	assert.False(t, Matches("* * * *", now))
	assert.False(t, Matches("not a cron expr", now))
	assert.False(t, Matches("60 * * * *", now))
	assert.False(t, Matches("*/0 * * * *", now))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("*/5 9-17 * * 1-5"))
	assert.Error(t, Validate("bad"))
	assert.Error(t, Validate("* * * * * *"))
}
