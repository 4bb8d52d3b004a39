package services

import (
	"fmt"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/storage"
	"sync"
)

type RoadmapServiceInterface interface {
	Get() (models.RoadmapState, bool)
	Replace(goal, duration string, steps []models.RoadmapStep) (models.RoadmapState, error)
	ToggleStep(stepID string) (models.RoadmapState, error)
	Clear() error
}

// RoadmapService holds the single active study plan.
type RoadmapService struct {
	mu     sync.Mutex
	store  storage.RecordStoreInterface
	logger providers.Logger
}

func NewRoadmapService(store storage.RecordStoreInterface, logger providers.Logger) RoadmapServiceInterface {
	return &RoadmapService{store: store, logger: logger}
}

func (rs *RoadmapService) Get() (models.RoadmapState, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	state := rs.load()
	return state, !state.IsEmpty()
}

// Replace overwrites the active plan and resets its progress.
func (rs *RoadmapService) Replace(goal, duration string, steps []models.RoadmapStep) (models.RoadmapState, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	state := models.RoadmapState{
		Goal:           goal,
		Duration:       duration,
		Steps:          steps,
		CompletedSteps: []string{},
	}
	return state, rs.save(state)
}

func (rs *RoadmapService) ToggleStep(stepID string) (models.RoadmapState, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	state := rs.load()
	if state.IsEmpty() {
		return state, ErrNoActiveState
	}
	found := false
	for _, s := range state.Steps {
		if s.ID == stepID {
			found = true
			break
		}
	}
	if !found {
		return state, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}

	if state.IsCompleted(stepID) {
		kept := make([]string, 0, len(state.CompletedSteps))
		for _, id := range state.CompletedSteps {
			if id != stepID {
				kept = append(kept, id)
			}
		}
		state.CompletedSteps = kept
	} else {
		state.CompletedSteps = append(state.CompletedSteps, stepID)
	}
	return state, rs.save(state)
}

func (rs *RoadmapService) Clear() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.store.Remove(storage.KeyRoadmap)
}

func (rs *RoadmapService) load() models.RoadmapState {
	return storage.LoadOrDefault(rs.store, storage.KeyRoadmap, func() models.RoadmapState {
		return models.RoadmapState{}
	})
}

// save only persists a non-empty plan.
func (rs *RoadmapService) save(state models.RoadmapState) error {
	if state.IsEmpty() {
		return nil
	}
	if err := rs.store.Save(storage.KeyRoadmap, state); err != nil {
		rs.logger.Errorf(providers.TypeStorage, "Failed to save roadmap: %s", err)
		return err
	}
	return nil
}
