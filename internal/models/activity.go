package models

import "fmt"

type ActivityType string

const (
	ActivityQuiz       ActivityType = "quiz"
	ActivityChat       ActivityType = "chat"
	ActivitySummary    ActivityType = "summary"
	ActivityLive       ActivityType = "live"
	ActivityPremium    ActivityType = "premium"
	ActivityFlashcards ActivityType = "flashcards"
	ActivityRoadmap    ActivityType = "roadmap"
	ActivityNotes      ActivityType = "notes"
	ActivityAlert      ActivityType = "alert"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityQuiz, ActivityChat, ActivitySummary, ActivityLive, ActivityPremium,
		ActivityFlashcards, ActivityRoadmap, ActivityNotes, ActivityAlert:
		return true
	}
	return false
}

type ActivityLog struct {
	ID        string       `json:"id" validate:"required"`
	Type      ActivityType `json:"type" validate:"required"`
	Topic     string       `json:"topic"`
	Timestamp int64        `json:"timestamp"`
	Details   string       `json:"details,omitempty"`
}

func (l ActivityLog) Check() error {
	if !l.Type.Valid() {
		return fmt.Errorf("activity %s: unknown type %q", l.ID, l.Type)
	}
	return nil
}
