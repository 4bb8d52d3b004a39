package services

import (
	"studymate/internal/models"
	"studymate/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 18, 0, 0, 0, time.UTC)
}

func TestStatsService_Defaults(t *testing.T) {
	f := newFixture(t, 0)
	stats := f.stats().GetStats()

	assert.Equal(t, 0, stats.Streak)
	assert.True(t, stats.LastStudyDate.Equal(time.Unix(0, 0)))
	assert.False(t, stats.IsPremium)
	assert.Equal(t, models.CalendarDate("2024-03-10"), stats.LastImageGenDate)
}

func TestStatsService_StreakSequence(t *testing.T) {
	f := newFixture(t, 0)
	ss := f.stats()

	steps := []struct {
		at     time.Time
		streak int
	}{
		{day(1), 1},
		{day(1).Add(3 * time.Hour), 1},
		{day(2), 2},
		{day(3), 3},
		{day(5), 1},
		{day(6), 2},
	}
	for _, s := range steps {
		f.clock.Set(s.at)
		assert.Equal(t, s.streak, ss.UpdateStreak().Streak, s.at.String())
	}

	stored := ss.GetStats()
	assert.Equal(t, 2, stored.Streak)
	assert.True(t, stored.LastStudyDate.Equal(day(6)))
}

func TestStatsService_StreakSameDayIsNoop(t *testing.T) {
	f := newFixture(t, 0)
	ss := f.stats()

	f.clock.Set(day(4))
	first := ss.UpdateStreak()
	f.clock.Set(day(4).Add(2 * time.Hour))
	second := ss.UpdateStreak()

	assert.Equal(t, first.Streak, second.Streak)
	assert.True(t, second.LastStudyDate.Equal(day(4)))
}

func TestStatsService_StreakAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	f := newFixture(t, 0)
	ss := f.stats()

	f.clock.Set(time.Date(2024, 3, 9, 23, 30, 0, 0, loc))
	ss.UpdateStreak()
	f.clock.Set(time.Date(2024, 3, 10, 23, 30, 0, 0, loc))
	assert.Equal(t, 2, ss.UpdateStreak().Streak)
}

func TestStatsService_DailyImageReset(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.store.Save(storage.KeyStats, models.UserStats{
		ImageGenCount:    5,
		LastImageGenDate: "2024-03-09",
	}))

	stats := f.stats().GetStats()
	assert.Equal(t, 0, stats.ImageGenCount)
	assert.Equal(t, models.CalendarDate("2024-03-10"), stats.LastImageGenDate)

	var persisted models.UserStats
	require.NoError(t, f.store.Load(storage.KeyStats, &persisted))
	assert.Equal(t, 0, persisted.ImageGenCount)
	assert.Equal(t, models.CalendarDate("2024-03-10"), persisted.LastImageGenDate)
}

func TestStatsService_Counters(t *testing.T) {
	f := newFixture(t, 0)
	ss := f.stats()

	ss.RecordQuestion()
	ss.RecordQuestion()
	ss.RecordQuizAnswer(true)
	ss.RecordQuizAnswer(false)
	ss.RecordQuizCompleted()
	ss.UnlockPremium()
	assert.Equal(t, 1, ss.RecordImageGeneration().ImageGenCount)

	stats := ss.GetStats()
	assert.Equal(t, 2, stats.QuestionsAsked)
	assert.Equal(t, 1, stats.CorrectAnswers)
	assert.Equal(t, 1, stats.QuizzesTaken)
	assert.True(t, stats.IsPremium)
	assert.Equal(t, 1, stats.ImageGenCount)
}

func TestStatsService_CorruptRecordFallsBack(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.kv.Set(storage.KeyStats, []byte("{not json")))

	stats := f.stats().GetStats()
	assert.Equal(t, 0, stats.Streak)
	assert.GreaterOrEqual(t, f.logger.Count("warn"), 1)
}

func TestStatsService_SaveFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, 10)
	ss := f.stats()

	assert.NotPanics(t, func() { ss.RecordQuestion() })
	assert.GreaterOrEqual(t, f.logger.Count("error"), 1)
}

func TestStatsService_InactiveFor(t *testing.T) {
	f := newFixture(t, 0)
	ss := f.stats()
	ss.UpdateStreak()

	f.clock.Advance(30 * time.Hour)
	assert.Equal(t, 30*time.Hour, ss.InactiveFor())
}
