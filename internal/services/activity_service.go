package services

import (
	"fmt"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/storage"
	"sync"

	"github.com/google/uuid"
)

const MaxActivityLogs = 50

type ActivityServiceInterface interface {
	Log(t models.ActivityType, topic, details string) (models.ActivityLog, error)
	List() []models.ActivityLog
}

type ActivityService struct {
	mu     sync.Mutex
	store  storage.RecordStoreInterface
	clock  providers.Clock
	logger providers.Logger
}

func NewActivityService(store storage.RecordStoreInterface, clock providers.Clock, logger providers.Logger) ActivityServiceInterface {
	return &ActivityService{store: store, clock: clock, logger: logger}
}

// Log prepends an entry and keeps the newest MaxActivityLogs. When the
// write fails the whole log is removed.
func (as *ActivityService) Log(t models.ActivityType, topic, details string) (models.ActivityLog, error) {
	if !t.Valid() {
		return models.ActivityLog{}, fmt.Errorf("%w: %q", ErrInvalidActivity, t)
	}

	as.mu.Lock()
	defer as.mu.Unlock()

	entry := models.ActivityLog{
		ID:        uuid.NewString(),
		Type:      t,
		Topic:     topic,
		Timestamp: as.clock.Now().UnixMilli(),
		Details:   details,
	}

	logs := append([]models.ActivityLog{entry}, as.load()...)
	if len(logs) > MaxActivityLogs {
		logs = logs[:MaxActivityLogs]
	}

	if err := as.store.Save(storage.KeyActivity, logs); err != nil {
		as.logger.Errorf(providers.TypeStorage, "Failed to log activity, clearing log: %s", err)
		_ = as.store.Remove(storage.KeyActivity)
		return entry, fmt.Errorf("activity log cleared: %w", err)
	}
	return entry, nil
}

// List returns the log newest first.
func (as *ActivityService) List() []models.ActivityLog {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.load()
}

func (as *ActivityService) load() []models.ActivityLog {
	return storage.LoadOrDefault(as.store, storage.KeyActivity, func() []models.ActivityLog {
		return []models.ActivityLog{}
	})
}
