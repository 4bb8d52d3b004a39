package services

import (
	"studymate/internal/scheduler"
	"studymate/internal/storage"
	"studymate/internal/structures"
	"studymate/internal/testutil"
	"testing"
	"time"
)

var baseTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Chat: structures.ChatConfig{
			StreamingSaveDelay: 2 * time.Second,
			IdleSaveDelay:      0,
			DefaultTitle:       "New Chat",
			WelcomeText:        "Hi! I'm StudyMate.",
		},
		Quota:  structures.QuotaConfig{DailyImageLimit: 5},
		Parent: structures.ParentConfig{PIN: "1234"},
		Reminder: structures.ReminderConfig{
			Enabled:             true,
			CheckInterval:       time.Hour,
			InactivityThreshold: 24 * time.Hour,
		},
		AI: structures.AIConfig{ChatModel: "chat-model", NotesModel: "notes-model"},
	}
}

type fixture struct {
	conf     *structures.Config
	kv       *storage.MemoryStore
	store    storage.RecordStoreInterface
	clock    *testutil.MockClock
	logger   *testutil.MockLogger
	metrics  *testutil.MockMetrics
	notifier *testutil.MockNotifier
}

func newFixture(t *testing.T, limit int64) *fixture {
	t.Helper()
	f := &fixture{
		conf:     testConfig(),
		kv:       storage.NewMemoryStore(limit),
		clock:    testutil.NewMockClock(baseTime),
		logger:   &testutil.MockLogger{},
		metrics:  testutil.NewMockMetrics(),
		notifier: &testutil.MockNotifier{},
	}
	f.store = storage.NewRecordStore(f.kv, f.logger, f.metrics)
	return f
}

func (f *fixture) stats() StatsServiceInterface {
	return NewStatsService(f.store, f.clock, f.logger)
}

func (f *fixture) activity() ActivityServiceInterface {
	return NewActivityService(f.store, f.clock, f.logger)
}

func (f *fixture) sessions() *SessionService {
	return NewSessionService(f.conf, f.store, f.clock, f.logger, f.metrics, scheduler.NewDebouncer()).(*SessionService)
}
