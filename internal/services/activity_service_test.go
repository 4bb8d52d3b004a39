package services

import (
	"fmt"
	"strings"
	"studymate/internal/models"
	"studymate/internal/storage"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogPrepends(t *testing.T) {
	f := newFixture(t, 0)
	as := f.activity()

	first, err := as.Log(models.ActivityQuiz, "Generated Easy quiz on Cells", "")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	second, err := as.Log(models.ActivityChat, "Study Question", "What is mitosis?...")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, baseTime.UnixMilli(), first.Timestamp)

	logs := as.List()
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID)
	assert.Equal(t, "What is mitosis?...", logs[0].Details)
	assert.Equal(t, first.ID, logs[1].ID)
}

func TestActivityService_KeepsNewestFifty(t *testing.T) {
	f := newFixture(t, 0)
	as := f.activity()

	for i := 0; i < MaxActivityLogs+5; i++ {
		_, err := as.Log(models.ActivityChat, fmt.Sprintf("topic %d", i), "")
		require.NoError(t, err)
	}

	logs := as.List()
	require.Len(t, logs, MaxActivityLogs)
	assert.Equal(t, fmt.Sprintf("topic %d", MaxActivityLogs+4), logs[0].Topic)
	assert.Equal(t, "topic 5", logs[MaxActivityLogs-1].Topic)
}

func TestActivityService_RejectsUnknownType(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.activity().Log("homework", "x", "")
	assert.ErrorIs(t, err, ErrInvalidActivity)
	assert.Empty(t, f.activity().List())
}

func TestActivityService_FailedWriteClearsLog(t *testing.T) {
	f := newFixture(t, 200)
	as := f.activity()

	_, err := as.Log(models.ActivityChat, "short", "")
	require.NoError(t, err)
	_, present, _ := f.kv.Get(storage.KeyActivity)
	require.True(t, present)

	_, err = as.Log(models.ActivityChat, strings.Repeat("x", 400), "")
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

	_, present, _ = f.kv.Get(storage.KeyActivity)
	assert.False(t, present)
	assert.Empty(t, as.List())
}

func TestActivityService_EmptyWhenCorrupt(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.kv.Set(storage.KeyActivity, []byte(`[{"id":"1","type":"bogus","topic":"x","timestamp":1}]`)))
	assert.Empty(t, f.activity().List())
}
