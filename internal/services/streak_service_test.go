package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreakFixture() (*fakeSetStore, *StreakService) {
	sets := newFakeSetStore()
	return sets, NewStreakService(sets, testRotationConfig(), testLogger())
}

func TestCurrentStreakZeroWithoutCompletions(t *testing.T) {
	_, service := newStreakFixture()

	streak, err := service.CurrentStreak(context.Background(), 1, date(2026, time.March, 10))
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestCurrentStreakCountsConsecutiveDays(t *testing.T) {
	sets, service := newStreakFixture()
	today := date(2026, time.March, 10)
	for d := 0; d < 4; d++ {
		sets.markFullyCompleted(1, today.AddDate(0, 0, -d))
	}

	streak, err := service.CurrentStreak(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestCurrentStreakStopsAtGap(t *testing.T) {
	sets, service := newStreakFixture()
	today := date(2026, time.March, 10)
	sets.markFullyCompleted(1, today)
	sets.markFullyCompleted(1, today.AddDate(0, 0, -1))
	// Gap at day -2
	sets.markFullyCompleted(1, today.AddDate(0, 0, -3))
	sets.markFullyCompleted(1, today.AddDate(0, 0, -4))

	streak, err := service.CurrentStreak(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestCurrentStreakIncompleteTodayBreaksImmediately(t *testing.T) {
	sets, service := newStreakFixture()
	today := date(2026, time.March, 10)
	// Yesterday done, today not
	sets.markFullyCompleted(1, today.AddDate(0, 0, -1))

	streak, err := service.CurrentStreak(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestCurrentStreakHonorsLookbackCap(t *testing.T) {
	sets := newFakeSetStore()
	cfg := testRotationConfig()
	cfg.StreakMaxLookbackDays = 10
	service := NewStreakService(sets, cfg, testLogger())

	today := date(2026, time.March, 10)
	for d := 0; d < 30; d++ {
		sets.markFullyCompleted(1, today.AddDate(0, 0, -d))
	}

	streak, err := service.CurrentStreak(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Equal(t, 11, streak, "scan stops once the cap is exceeded")
}

func TestGetStreakIncludesTotalsAndMessage(t *testing.T) {
	sets, service := newStreakFixture()
	today := date(2026, time.March, 10)
	sets.markFullyCompleted(1, today)
	sets.markFullyCompleted(1, today.AddDate(0, 0, -1))
	// Non-consecutive day still counts in the total
	sets.markFullyCompleted(1, today.AddDate(0, 0, -20))

	summary, err := service.GetStreak(context.Background(), 1, today)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CurrentStreak)
	assert.Equal(t, 3, summary.TotalCompletedDays)
	assert.Contains(t, summary.Message, "2 days strong")
}

func TestStreakMessageTiers(t *testing.T) {
	assert.Equal(t, "Start your reflection journey today!", streakMessage(0))
	assert.Contains(t, streakMessage(1), "Great start")
	assert.Contains(t, streakMessage(5), "5 days strong")
	assert.Contains(t, streakMessage(15), "Amazing! 15 day streak")
	assert.Contains(t, streakMessage(50), "Incredible! 50 days of reflection")
	assert.Contains(t, streakMessage(200), "Legendary! 200 day streak")
}

func TestStreaksAreIndependentPerUser(t *testing.T) {
	sets, service := newStreakFixture()
	today := date(2026, time.March, 10)
	sets.markFullyCompleted(1, today)
	sets.markFullyCompleted(1, today.AddDate(0, 0, -1))
	sets.markFullyCompleted(2, today)

	one, err := service.CurrentStreak(context.Background(), 1, today)
	require.NoError(t, err)
	two, err := service.CurrentStreak(context.Background(), 2, today)
	require.NoError(t, err)

	assert.Equal(t, 2, one)
	assert.Equal(t, 1, two)
}
