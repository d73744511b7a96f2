package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "sjsage522/avitoworker/pkg/errors"
)

func TestNormalizeDateRelative(t *testing.T) {
	now := time.Date(2019, time.January, 11, 18, 0, 0, 0, time.UTC)

	got, err := NormalizeDate("Вчера 15:29", now)
	assert.NoError(t, err)
	assert.Equal(t, "2019-01-10 15:29", got)

	got, err = NormalizeDate("Сегодня 09:05", now)
	assert.NoError(t, err)
	assert.Equal(t, "2019-01-11 09:05", got)
}

func TestNormalizeDateRelativeNoRollover(t *testing.T) {
	// "Вчера" on the first of the month yields day 0: the day number is never
	// rolled back into the previous month
	now := time.Date(2019, time.March, 1, 12, 0, 0, 0, time.UTC)

	got, err := NormalizeDate("Вчера 15:29", now)
	assert.NoError(t, err)
	assert.Equal(t, "2019-03-00 15:29", got)
}

func TestNormalizeDateAbsolute(t *testing.T) {
	// The reference time must not influence a fully absolute date
	now := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	got, err := NormalizeDate("10 января 2019", now)
	assert.NoError(t, err)
	assert.Equal(t, "2019-01-10", got)
}

func TestNormalizeDateAbsoluteWithClock(t *testing.T) {
	now := time.Date(2019, time.March, 5, 10, 0, 0, 0, time.UTC)

	got, err := NormalizeDate("5 марта 09:41", now)
	assert.NoError(t, err)
	assert.Equal(t, "2019-03-05 09:41", got)
}

func TestNormalizeDateNonBreakingSpaces(t *testing.T) {
	// Tooltip text uses non-breaking spaces between tokens
	now := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)

	got, err := NormalizeDate("10 января 2019", now)
	assert.NoError(t, err)
	assert.Equal(t, "2019-01-10", got)
}

func TestNormalizeDateUnknownVocabulary(t *testing.T) {
	now := time.Date(2019, time.January, 11, 0, 0, 0, 0, time.UTC)

	cases := []string{
		"10 January 2019",  // month name outside the vocabulary
		"Вчера",            // relative marker without a clock time
		"31 февраля 2019",  // no such day
		"10 января",        // date-only shape requires a year
		"5 марта 25:41",    // clock out of range
		"десятое января 2019",
		"",
	}

	for _, raw := range cases {
		_, err := NormalizeDate(raw, now)
		assert.Error(t, err, "input %q", raw)
		assert.True(t, errs.IsDateFormat(err), "input %q should fail as date_format, got %v", raw, err)
	}
}
