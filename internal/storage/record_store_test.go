package storage

import (
	"studymate/internal/models"
	"studymate/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecordStore(limit int64) (RecordStoreInterface, *MemoryStore, *testutil.MockLogger, *testutil.MockMetrics) {
	kv := NewMemoryStore(limit)
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewRecordStore(kv, logger, metrics), kv, logger, metrics
}

func TestRecordStore_Roundtrip(t *testing.T) {
	rs, _, _, _ := newTestRecordStore(0)
	sessions := []models.ChatSession{{
		ID:    "1700000000000",
		Title: "Photosynthesis",
		Messages: []models.ChatMessage{
			{ID: "welcome", Role: models.RoleModel, Text: "Hi!", Timestamp: 1700000000000},
			{ID: "m1", Role: models.RoleUser, Text: "What is ATP?", Timestamp: 1700000001000, ImageURL: "data:image/png;base64,AA=="},
		},
		LastModified: 1700000001000,
	}}

	require.NoError(t, rs.Save(KeySessions, sessions))

	var loaded []models.ChatSession
	require.NoError(t, rs.Load(KeySessions, &loaded))
	assert.Equal(t, sessions, loaded)
}

func TestRecordStore_StatsRoundtrip(t *testing.T) {
	rs, _, _, _ := newTestRecordStore(0)
	stats := models.UserStats{
		Streak:           4,
		LastStudyDate:    time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
		QuizzesTaken:     2,
		ImageGenCount:    3,
		LastImageGenDate: "2024-03-10",
	}
	require.NoError(t, rs.Save(KeyStats, stats))

	var loaded models.UserStats
	require.NoError(t, rs.Load(KeyStats, &loaded))
	assert.Equal(t, stats.Streak, loaded.Streak)
	assert.True(t, stats.LastStudyDate.Equal(loaded.LastStudyDate))
	assert.Equal(t, stats.LastImageGenDate, loaded.LastImageGenDate)
}

func TestRecordStore_LoadMissing(t *testing.T) {
	rs, _, _, _ := newTestRecordStore(0)
	var stats models.UserStats
	assert.ErrorIs(t, rs.Load(KeyStats, &stats), ErrNotFound)
}

func TestRecordStore_LoadUnparseable(t *testing.T) {
	rs, kv, logger, _ := newTestRecordStore(0)
	require.NoError(t, kv.Set(KeyStats, []byte("{not json")))

	var stats models.UserStats
	assert.ErrorIs(t, rs.Load(KeyStats, &stats), ErrCorrupt)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestRecordStore_LoadFailsValidation(t *testing.T) {
	rs, kv, _, _ := newTestRecordStore(0)

	cases := map[string]struct {
		key  string
		data string
		dst  any
	}{
		"negative streak":    {KeyStats, `{"streak":-2}`, &models.UserStats{}},
		"unknown role":       {KeySessions, `[{"id":"1","messages":[{"id":"m","role":"robot"}]}]`, &[]models.ChatSession{}},
		"missing id":         {KeySessions, `[{"title":"x"}]`, &[]models.ChatSession{}},
		"unknown log type":   {KeyActivity, `[{"id":"1","type":"party"}]`, &[]models.ActivityLog{}},
		"unknown card state": {KeyFlashcards, `{"topic":"t","cards":[{"id":"c","status":"lost"}]}`, &models.FlashcardState{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(tc.key, []byte(tc.data)))
			assert.ErrorIs(t, rs.Load(tc.key, tc.dst), ErrCorrupt)
		})
	}
}

func TestRecordStore_SaveQuotaExceeded(t *testing.T) {
	rs, _, _, metrics := newTestRecordStore(32)

	err := rs.Save(KeyActivity, []models.ActivityLog{{ID: "1", Type: models.ActivityChat, Topic: "a very long topic name"}})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, metrics.QuotaExceeded[KeyActivity])
	assert.Equal(t, 1, metrics.StorageWrites)
}

func TestRecordStore_Remove(t *testing.T) {
	rs, kv, _, _ := newTestRecordStore(0)
	require.NoError(t, rs.Save(KeyRoadmap, models.RoadmapState{Goal: "Learn Go"}))
	require.NoError(t, rs.Remove(KeyRoadmap))

	_, ok, _ := kv.Get(KeyRoadmap)
	assert.False(t, ok)
}

func TestLoadOrDefault(t *testing.T) {
	rs, kv, _, _ := newTestRecordStore(0)
	def := func() models.UserStats { return models.UserStats{Streak: 99} }

	assert.Equal(t, 99, LoadOrDefault(rs, KeyStats, def).Streak, "absent")

	require.NoError(t, kv.Set(KeyStats, []byte("corrupt")))
	assert.Equal(t, 99, LoadOrDefault(rs, KeyStats, def).Streak, "corrupt")

	require.NoError(t, rs.Save(KeyStats, models.UserStats{Streak: 2}))
	assert.Equal(t, 2, LoadOrDefault(rs, KeyStats, def).Streak, "stored")
}

func TestNewKVStore_Backends(t *testing.T) {
	for _, backend := range []string{"memory", "file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			conf := testConfig(t, backend)
			kv, err := NewKVStore(conf, &testutil.MockLogger{}, testutil.NewMockCache())
			require.NoError(t, err)
			defer kv.Close()

			require.NoError(t, kv.Set(KeyStats, []byte("{}")))
			_, ok, err := kv.Get(KeyStats)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestNewKVStore_UnknownBackend(t *testing.T) {
	conf := testConfig(t, "redis")
	_, err := NewKVStore(conf, &testutil.MockLogger{}, testutil.NewMockCache())
	assert.Error(t, err)
}
