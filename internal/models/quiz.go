package models

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type GeneratedQuiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}
