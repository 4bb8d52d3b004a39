package controllers

import (
	"fmt"
	"net/http"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/services"

	"github.com/spf13/cast"
)

// ToolsController serves the study tools and their stored state.
type ToolsController struct {
	logger     providers.Logger
	tutor      services.TutorServiceInterface
	roadmap    services.RoadmapServiceInterface
	flashcards services.FlashcardServiceInterface
	checkout   services.CheckoutServiceInterface
}

func NewToolsController(
	logger providers.Logger,
	tutor services.TutorServiceInterface,
	roadmap services.RoadmapServiceInterface,
	flashcards services.FlashcardServiceInterface,
	checkout services.CheckoutServiceInterface,
) *ToolsController {
	return &ToolsController{
		logger:     logger,
		tutor:      tutor,
		roadmap:    roadmap,
		flashcards: flashcards,
		checkout:   checkout,
	}
}

type roadmapResponse struct {
	Active   bool                `json:"active"`
	Roadmap  models.RoadmapState `json:"roadmap"`
	Progress int                 `json:"progress"`
}

type deckResponse struct {
	Active bool          `json:"active"`
	Deck   services.Deck `json:"deck"`
}

type textResponse struct {
	Text string `json:"text"`
}

func newRoadmapResponse(state models.RoadmapState) roadmapResponse {
	return roadmapResponse{Active: !state.IsEmpty(), Roadmap: state, Progress: state.Progress()}
}

// loose reads the numeric and boolean fields the UI sends either as json
// numbers or as strings.
type loose map[string]any

func (l loose) int(key string) (int, error) {
	v, ok := l[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", errBadRequest, key)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
	}
	return n, nil
}

func (l loose) bool(key string) (bool, error) {
	b, err := cast.ToBoolE(l[key])
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
	}
	return b, nil
}

func (l loose) string(key string) string {
	return cast.ToString(l[key])
}

func (tc *ToolsController) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	state, _ := tc.roadmap.Get()
	writeJSON(w, http.StatusOK, newRoadmapResponse(state))
}

func (tc *ToolsController) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal     string `json:"goal"`
		Duration string `json:"duration"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	state, err := tc.tutor.GenerateRoadmap(r.Context(), req.Goal, req.Duration)
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRoadmapResponse(state))
}

func (tc *ToolsController) ToggleStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StepID string `json:"stepId"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	state, err := tc.roadmap.ToggleStep(req.StepID)
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRoadmapResponse(state))
}

func (tc *ToolsController) ClearRoadmap(w http.ResponseWriter, r *http.Request) {
	if err := tc.roadmap.Clear(); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (tc *ToolsController) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	deck, ok := tc.flashcards.Get()
	writeJSON(w, http.StatusOK, deckResponse{Active: ok, Deck: deck})
}

func (tc *ToolsController) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	deck, err := tc.tutor.GenerateFlashcards(r.Context(), req.Topic)
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deckResponse{Active: true, Deck: deck})
}

func (tc *ToolsController) MarkCard(w http.ResponseWriter, r *http.Request) {
	var req loose
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	index, err := req.int("index")
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	deck, err := tc.flashcards.Mark(index, models.CardStatus(req.string("status")))
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deckResponse{Active: true, Deck: deck})
}

func (tc *ToolsController) ResetFlashcards(w http.ResponseWriter, r *http.Request) {
	deck, err := tc.flashcards.ResetDeck()
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deckResponse{Active: true, Deck: deck})
}

func (tc *ToolsController) ClearFlashcards(w http.ResponseWriter, r *http.Request) {
	if err := tc.flashcards.Clear(); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (tc *ToolsController) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	quiz, err := tc.tutor.GenerateQuiz(r.Context(), req.Topic, req.Difficulty)
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (tc *ToolsController) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var req loose
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	correct, err := req.bool("correct")
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	tc.tutor.RecordQuizAnswer(correct)
	w.WriteHeader(http.StatusNoContent)
}

func (tc *ToolsController) FinishQuiz(w http.ResponseWriter, r *http.Request) {
	var req loose
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	score, err := req.int("score")
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	total, err := req.int("total")
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	if err := tc.tutor.RecordQuizResult(req.string("topic"), score, total); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (tc *ToolsController) Summarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	summary, err := tc.tutor.Summarize(r.Context(), req.Text)
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: summary})
}

// DetailedNotes charges the simulated payment before generating.
func (tc *ToolsController) DetailedNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic   string               `json:"topic"`
		Payment services.PaymentForm `json:"payment"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	if _, err := tc.checkout.Charge(req.Payment); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	notes, err := tc.tutor.DetailedNotes(r.Context(), req.Topic)
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: notes})
}

func (tc *ToolsController) BoardGuide(w http.ResponseWriter, r *http.Request) {
	var req loose
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	guide, err := tc.tutor.BoardGuide(r.Context(), req.string("classLevel"), req.string("subject"))
	if err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: guide})
}

func (tc *ToolsController) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tc.tutor.Suggestions(r.Context(), req.Input))
}

func (tc *ToolsController) RecordLiveSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, tc.logger, r, err)
			return
		}
	}
	if err := tc.tutor.RecordLiveSession(req.Topic); err != nil {
		writeError(w, tc.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
