package models

type RoadmapStep struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	KeyTopics   []string `json:"keyTopics"`
}

type RoadmapState struct {
	Goal           string        `json:"goal"`
	Duration       string        `json:"duration"`
	Steps          []RoadmapStep `json:"steps"`
	CompletedSteps []string      `json:"completedSteps"`
}

func (r RoadmapState) IsEmpty() bool {
	return len(r.Steps) == 0
}

func (r RoadmapState) IsCompleted(stepID string) bool {
	for _, id := range r.CompletedSteps {
		if id == stepID {
			return true
		}
	}
	return false
}

// Progress is the completed share of the plan in percent.
func (r RoadmapState) Progress() int {
	if len(r.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range r.Steps {
		if r.IsCompleted(s.ID) {
			done++
		}
	}
	return done * 100 / len(r.Steps)
}
