package contextutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnlyTruncatesInLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC on March 2 is still March 1 in New York.
	instant := time.Date(2026, time.March, 2, 2, 30, 0, 0, time.UTC)
	day := DateOnly(instant, ny)

	assert.Equal(t, 2026, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 1, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, ny, day.Location())
}

func TestDateOnlyNilLocationDefaultsUTC(t *testing.T) {
	instant := time.Date(2026, time.March, 2, 23, 59, 59, 0, time.UTC)
	day := DateOnly(instant, nil)
	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), day)
}

func TestUserLocation(t *testing.T) {
	loc, name := UserLocation("Europe/Berlin")
	assert.Equal(t, "Europe/Berlin", name)
	assert.Equal(t, "Europe/Berlin", loc.String())

	loc, name = UserLocation("")
	assert.Equal(t, "UTC", name)
	assert.Equal(t, time.UTC, loc)

	loc, name = UserLocation("Not/AZone")
	assert.Equal(t, "UTC", name)
	assert.Equal(t, time.UTC, loc)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-03-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("15/03/2026", time.UTC)
	require.Error(t, err)
	assert.Equal(t, ErrorCodeInternalError, GetErrorCode(err))
}
