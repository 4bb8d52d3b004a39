package models

import "time"

type UserStats struct {
	Streak           int          `json:"streak" validate:"min:0"`
	LastStudyDate    time.Time    `json:"lastStudyDate"`
	QuizzesTaken     int          `json:"quizzesTaken" validate:"min:0"`
	QuestionsAsked   int          `json:"questionsAsked" validate:"min:0"`
	CorrectAnswers   int          `json:"correctAnswers" validate:"min:0"`
	IsPremium        bool         `json:"isPremium"`
	ImageGenCount    int          `json:"imageGenCount" validate:"min:0"`
	LastImageGenDate CalendarDate `json:"lastImageGenDate"`
}

// DefaultUserStats is the record of a user who has never studied.
func DefaultUserStats(now time.Time) UserStats {
	return UserStats{
		LastStudyDate:    time.Unix(0, 0).UTC(),
		LastImageGenDate: DateOf(now),
	}
}
