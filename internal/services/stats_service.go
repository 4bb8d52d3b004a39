package services

import (
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/storage"
	"sync"
	"time"
)

type StatsServiceInterface interface {
	GetStats() models.UserStats
	UpdateStreak() models.UserStats
	RecordQuestion()
	RecordQuizAnswer(correct bool)
	RecordQuizCompleted()
	RecordImageGeneration() models.UserStats
	UnlockPremium()
	InactiveFor() time.Duration
}

type StatsService struct {
	mu     sync.Mutex
	store  storage.RecordStoreInterface
	clock  providers.Clock
	logger providers.Logger
}

func NewStatsService(store storage.RecordStoreInterface, clock providers.Clock, logger providers.Logger) StatsServiceInterface {
	return &StatsService{store: store, clock: clock, logger: logger}
}

// GetStats returns the stored stats with the daily image counter reset
// when the calendar day has changed since the last generation.
func (ss *StatsService) GetStats() models.UserStats {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.load()
}

// UpdateStreak counts today as a study day. Calling it again on the same
// day changes nothing.
func (ss *StatsService) UpdateStreak() models.UserStats {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.clock.Now()
	stats := ss.load()
	today := models.DateOf(now)
	lastStudy := models.DateOf(stats.LastStudyDate.In(now.Location()))

	if lastStudy == today {
		return stats
	}
	if lastStudy == today.AddDays(-1) {
		stats.Streak++
	} else {
		stats.Streak = 1
	}
	stats.LastStudyDate = now
	ss.save(stats)
	return stats
}

func (ss *StatsService) RecordQuestion() {
	ss.update(func(s *models.UserStats) { s.QuestionsAsked++ })
}

func (ss *StatsService) RecordQuizAnswer(correct bool) {
	if !correct {
		return
	}
	ss.update(func(s *models.UserStats) { s.CorrectAnswers++ })
}

func (ss *StatsService) RecordQuizCompleted() {
	ss.update(func(s *models.UserStats) { s.QuizzesTaken++ })
}

func (ss *StatsService) RecordImageGeneration() models.UserStats {
	return ss.update(func(s *models.UserStats) { s.ImageGenCount++ })
}

func (ss *StatsService) UnlockPremium() {
	ss.update(func(s *models.UserStats) { s.IsPremium = true })
}

func (ss *StatsService) InactiveFor() time.Duration {
	stats := ss.GetStats()
	return ss.clock.Now().Sub(stats.LastStudyDate)
}

func (ss *StatsService) update(fn func(*models.UserStats)) models.UserStats {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	stats := ss.load()
	fn(&stats)
	ss.save(stats)
	return stats
}

// load must be called with ss.mu held.
func (ss *StatsService) load() models.UserStats {
	now := ss.clock.Now()
	stats := storage.LoadOrDefault(ss.store, storage.KeyStats, func() models.UserStats {
		return models.DefaultUserStats(now)
	})

	today := models.DateOf(now)
	if stats.LastImageGenDate != today {
		stats.ImageGenCount = 0
		stats.LastImageGenDate = today
		ss.save(stats)
	}
	return stats
}

// save failures are logged only; stats are never worth failing a caller.
func (ss *StatsService) save(stats models.UserStats) {
	if err := ss.store.Save(storage.KeyStats, stats); err != nil {
		ss.logger.Errorf(providers.TypeStorage, "Failed to save stats: %s", err)
	}
}
