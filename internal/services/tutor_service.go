package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"studymate/internal/ai"
	"studymate/internal/models"
	"studymate/internal/providers"
	"studymate/internal/structures"
)

const (
	FlashcardDeckSize = 8

	StreamErrorText     = "\n\n*Sorry, I encountered an error. Please try again.*"
	ImageFailureText    = "Sorry, I couldn't generate that image right now."
	ParentAlertTitle    = "StudyMate Parent Alert"
	flaggedTopic        = "Inappropriate/Unhealthy Content Detected"
	chatDetailsMaxRunes = 30
	minSuggestionInput  = 3
)

// StreamUpdate is sent for every received fragment of a reply. Text is
// what the student should currently see.
type StreamUpdate struct {
	Chunk   string `json:"chunk"`
	Text    string `json:"text"`
	Flagged bool   `json:"flagged,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ChatTurn struct {
	User    models.ChatMessage `json:"user"`
	Reply   models.ChatMessage `json:"reply"`
	Flagged bool               `json:"flagged"`
	Reason  string             `json:"reason,omitempty"`
	Status  SaveStatus         `json:"saveStatus"`
	// AIError is set when the reply is the fallback text.
	AIError error `json:"-"`
}

type ImageTurn struct {
	User      models.ChatMessage `json:"user"`
	Reply     models.ChatMessage `json:"reply"`
	Remaining int                `json:"remaining"`
	Status    SaveStatus         `json:"saveStatus"`
	AIError   error              `json:"-"`
}

type TutorServiceInterface interface {
	SendMessage(ctx context.Context, sessionID, text, image string, onUpdate func(StreamUpdate)) (ChatTurn, error)
	GenerateImage(ctx context.Context, sessionID, prompt string, paid bool) (ImageTurn, error)
	GenerateQuiz(ctx context.Context, topic, difficulty string) (models.GeneratedQuiz, error)
	RecordQuizAnswer(correct bool)
	RecordQuizResult(topic string, score, total int) error
	GenerateFlashcards(ctx context.Context, topic string) (Deck, error)
	GenerateRoadmap(ctx context.Context, goal, duration string) (models.RoadmapState, error)
	Summarize(ctx context.Context, text string) (string, error)
	DetailedNotes(ctx context.Context, topic string) (string, error)
	BoardGuide(ctx context.Context, classLevel, subject string) (string, error)
	Suggestions(ctx context.Context, input string) []string
	RecordLiveSession(topic string) error
}

// TutorService runs the study tools against the generator and records
// their side effects in stats, the activity log and the stored tool state.
type TutorService struct {
	conf       structures.AIConfig
	generator  ai.Generator
	sessions   SessionServiceInterface
	stats      StatsServiceInterface
	activity   ActivityServiceInterface
	quota      ImageQuotaServiceInterface
	flashcards FlashcardServiceInterface
	roadmap    RoadmapServiceInterface
	notifier   providers.NotifierInterface
	clock      providers.Clock
	logger     providers.Logger
}

func NewTutorService(
	conf *structures.Config,
	generator ai.Generator,
	sessions SessionServiceInterface,
	stats StatsServiceInterface,
	activity ActivityServiceInterface,
	quota ImageQuotaServiceInterface,
	flashcards FlashcardServiceInterface,
	roadmap RoadmapServiceInterface,
	notifier providers.NotifierInterface,
	clock providers.Clock,
	logger providers.Logger,
) TutorServiceInterface {
	return &TutorService{
		conf:       conf.AI,
		generator:  generator,
		sessions:   sessions,
		stats:      stats,
		activity:   activity,
		quota:      quota,
		flashcards: flashcards,
		roadmap:    roadmap,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

// SendMessage appends the student's message, streams the reply into a
// placeholder message and saves the session once the reply is complete.
func (ts *TutorService) SendMessage(ctx context.Context, sessionID, text, image string, onUpdate func(StreamUpdate)) (ChatTurn, error) {
	if strings.TrimSpace(text) == "" && image == "" {
		return ChatTurn{}, ErrEmptyPrompt
	}
	session, err := ts.sessions.LoadSession(sessionID)
	if err != nil {
		return ChatTurn{}, err
	}
	if err := ts.sessions.TryStartStreaming(sessionID); err != nil {
		return ChatTurn{}, err
	}
	history := session.Messages

	user, err := ts.sessions.AppendMessage(sessionID, models.ChatMessage{
		Role:     models.RoleUser,
		Text:     text,
		ImageURL: image,
	})
	if err != nil {
		_ = ts.sessions.SetStreaming(sessionID, false)
		return ChatTurn{}, err
	}

	ts.stats.RecordQuestion()
	topic := "Study Question"
	if image != "" {
		topic = "Image Analysis Request"
	}
	ts.logActivity(models.ActivityChat, topic, truncateRunes(text, chatDetailsMaxRunes)+"...")

	reply, err := ts.sessions.AppendMessage(sessionID, models.ChatMessage{
		Role:      models.RoleModel,
		Timestamp: ts.clock.Now().UnixMilli() + 1,
		IsTyping:  true,
	})
	if err != nil {
		_ = ts.sessions.SetStreaming(sessionID, false)
		return ChatTurn{}, err
	}

	turn := ChatTurn{User: user, Reply: reply}
	var full strings.Builder
	handle := func(chunk string) {
		full.WriteString(chunk)
		display := full.String()
		if reason, clean, ok := ai.ParseFlag(display); ok {
			if !turn.Flagged {
				turn.Flagged, turn.Reason = true, reason
				ts.raiseAlert(reason)
			}
			display = clean
		}
		turn.Reply.Text = display
		if err := ts.sessions.UpdateMessage(sessionID, reply.ID, display, false); err != nil {
			ts.logger.Warnf(providers.TypeChat, "Dropped chunk for session %s: %s", sessionID, err)
		}
		if onUpdate != nil {
			onUpdate(StreamUpdate{Chunk: chunk, Text: display, Flagged: turn.Flagged, Reason: turn.Reason})
		}
	}

	if err := ts.generator.StreamChat(ctx, history, text, image, handle); err != nil {
		ts.logger.Errorf(providers.TypeChat, "Chat stream error in session %s: %s", sessionID, err)
		turn.AIError = err
		handle(StreamErrorText)
	}

	turn.Reply.IsTyping = false
	_ = ts.sessions.UpdateMessage(sessionID, reply.ID, turn.Reply.Text, false)
	if err := ts.sessions.SetStreaming(sessionID, false); err != nil {
		return turn, err
	}
	turn.Status = ts.sessions.SaveStatus(sessionID)
	return turn, nil
}

// GenerateImage produces a visual aid inside the chat. Free generations
// are counted against the daily allowance before the request is made.
func (ts *TutorService) GenerateImage(ctx context.Context, sessionID, prompt string, paid bool) (ImageTurn, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ImageTurn{}, ErrEmptyPrompt
	}
	if _, err := ts.sessions.LoadSession(sessionID); err != nil {
		return ImageTurn{}, err
	}
	if !paid && !ts.quota.CheckAllowed() {
		return ImageTurn{}, ErrImageLimitReached
	}

	ts.logActivity(models.ActivityChat, "Image Generation", prompt)
	ts.quota.RecordGeneration(paid)

	user, err := ts.sessions.AppendMessage(sessionID, models.ChatMessage{
		Role: models.RoleUser,
		Text: "Generate an image: " + prompt,
	})
	if err != nil {
		return ImageTurn{}, err
	}

	replyMsg := models.ChatMessage{Role: models.RoleModel, Timestamp: ts.clock.Now().UnixMilli() + 1}
	uri, genErr := ts.generator.GenerateImage(ctx, prompt)
	if genErr != nil {
		ts.logger.Errorf(providers.TypeChat, "Image generation failed for session %s: %s", sessionID, genErr)
		replyMsg.Text = ImageFailureText
	} else {
		replyMsg.Text = fmt.Sprintf("Here is a visual aid for: **%s**", prompt)
		replyMsg.ImageURL = uri
	}

	reply, err := ts.sessions.AppendMessage(sessionID, replyMsg)
	if err != nil {
		return ImageTurn{}, err
	}
	return ImageTurn{
		User:      user,
		Reply:     reply,
		Remaining: ts.quota.Remaining(),
		Status:    ts.sessions.SaveStatus(sessionID),
		AIError:   genErr,
	}, nil
}

func (ts *TutorService) GenerateQuiz(ctx context.Context, topic, difficulty string) (models.GeneratedQuiz, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return models.GeneratedQuiz{}, ErrEmptyPrompt
	}
	if difficulty == "" {
		difficulty = "Medium"
	}

	var quiz models.GeneratedQuiz
	if err := ts.generator.GenerateJSON(ctx, ai.QuizPrompt(topic, difficulty), ai.QuizSchema(), &quiz); err != nil {
		return models.GeneratedQuiz{}, ts.generationFailed("quiz", err)
	}
	if len(quiz.Questions) == 0 {
		return models.GeneratedQuiz{}, ts.generationFailed("quiz", ai.ErrNoContent)
	}
	ts.logActivity(models.ActivityQuiz, fmt.Sprintf("Generated %s quiz on %s", difficulty, topic), "")
	return quiz, nil
}

func (ts *TutorService) RecordQuizAnswer(correct bool) {
	ts.stats.RecordQuizAnswer(correct)
}

func (ts *TutorService) RecordQuizResult(topic string, score, total int) error {
	if total <= 0 || score < 0 || score > total {
		return fmt.Errorf("%w: %d/%d", ErrInvalidScore, score, total)
	}
	ts.stats.RecordQuizCompleted()
	_, err := ts.activity.Log(models.ActivityQuiz, "Completed quiz on "+topic, fmt.Sprintf("Score: %d/%d", score, total))
	return err
}

// GenerateFlashcards replaces the active deck with a freshly generated one.
func (ts *TutorService) GenerateFlashcards(ctx context.Context, topic string) (Deck, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Deck{}, ErrEmptyPrompt
	}

	var generated []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := ts.generator.GenerateJSON(ctx, ai.FlashcardsPrompt(topic, FlashcardDeckSize), ai.FlashcardsSchema(), &generated); err != nil {
		return Deck{}, ts.generationFailed("flashcards", err)
	}
	if len(generated) == 0 {
		return Deck{}, ts.generationFailed("flashcards", ai.ErrNoContent)
	}

	prefix := strconv.FormatInt(ts.clock.Now().UnixMilli(), 10)
	cards := make([]models.Flashcard, len(generated))
	for i, g := range generated {
		cards[i] = models.Flashcard{
			ID:     fmt.Sprintf("%s-%d", prefix, i),
			Front:  g.Front,
			Back:   g.Back,
			Status: models.CardNew,
		}
	}

	deck, err := ts.flashcards.Replace(topic, cards)
	ts.logActivity(models.ActivityFlashcards, "Created deck for "+topic, "")
	return deck, err
}

// GenerateRoadmap replaces the active plan with a freshly generated one.
func (ts *TutorService) GenerateRoadmap(ctx context.Context, goal, duration string) (models.RoadmapState, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return models.RoadmapState{}, ErrEmptyPrompt
	}

	var steps []models.RoadmapStep
	if err := ts.generator.GenerateJSON(ctx, ai.RoadmapPrompt(goal, duration), ai.RoadmapSchema(), &steps); err != nil {
		return models.RoadmapState{}, ts.generationFailed("roadmap", err)
	}
	if len(steps) == 0 {
		return models.RoadmapState{}, ts.generationFailed("roadmap", ai.ErrNoContent)
	}
	for i := range steps {
		steps[i].ID = fmt.Sprintf("step-%d", i)
	}

	state, err := ts.roadmap.Replace(goal, duration, steps)
	ts.logActivity(models.ActivityRoadmap, "Generated plan for: "+goal, "")
	return state, err
}

func (ts *TutorService) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyPrompt
	}
	summary, err := ts.generator.GenerateText(ctx, ts.conf.ChatModel, ai.SummaryPrompt(text))
	if err != nil {
		return "", ts.generationFailed("summary", err)
	}
	ts.logActivity(models.ActivitySummary, "Summarized study notes", truncateRunes(text, chatDetailsMaxRunes)+"...")
	return summary, nil
}

// DetailedNotes is the paid deep-dive; the caller settles the payment first.
func (ts *TutorService) DetailedNotes(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyPrompt
	}
	notes, err := ts.generator.GenerateText(ctx, ts.conf.NotesModel, ai.DetailedNotesPrompt(topic))
	if err != nil {
		return "", ts.generationFailed("notes", err)
	}
	ts.logActivity(models.ActivityNotes, "Unlocked Extra Notes for "+topic, "Paid ₹5.00")
	return notes, nil
}

func (ts *TutorService) BoardGuide(ctx context.Context, classLevel, subject string) (string, error) {
	if strings.TrimSpace(classLevel) == "" || strings.TrimSpace(subject) == "" {
		return "", ErrEmptyPrompt
	}
	if !ts.stats.GetStats().IsPremium {
		return "", ErrPremiumRequired
	}
	guide, err := ts.generator.GenerateText(ctx, ts.conf.ChatModel, ai.BoardGuidePrompt(classLevel, subject))
	if err != nil {
		return "", ts.generationFailed("board guide", err)
	}
	ts.logActivity(models.ActivityPremium, fmt.Sprintf("Generated guide for Class %s %s", classLevel, subject), "")
	return guide, nil
}

// Suggestions never fails; short input and generator errors give no
// suggestions.
func (ts *TutorService) Suggestions(ctx context.Context, input string) []string {
	out := []string{}
	if len(input) < minSuggestionInput {
		return out
	}
	if err := ts.generator.GenerateJSON(ctx, ai.SuggestionsPrompt(input), ai.SuggestionsSchema(), &out); err != nil {
		ts.logger.Debugf(providers.TypeChat, "Suggestions unavailable: %s", err)
		return []string{}
	}
	return out
}

func (ts *TutorService) RecordLiveSession(topic string) error {
	if topic == "" {
		topic = "Language Practice Session"
	}
	_, err := ts.activity.Log(models.ActivityLive, topic, "")
	return err
}

func (ts *TutorService) raiseAlert(reason string) {
	ts.logger.Warnf(providers.TypeChat, "Flagged content detected: %s", reason)
	ts.logActivity(models.ActivityAlert, flaggedTopic, reason)
	ts.notifier.Notify(ParentAlertTitle, "Flagged content detected in study session: "+reason)
}

// logActivity records a side effect of a tool; a failed log entry never
// fails the tool itself.
func (ts *TutorService) logActivity(t models.ActivityType, topic, details string) {
	if _, err := ts.activity.Log(t, topic, details); err != nil {
		ts.logger.Warnf(providers.TypeStorage, "Activity %s not recorded: %s", t, err)
	}
}

func (ts *TutorService) generationFailed(tool string, err error) error {
	ts.logger.Errorf(providers.TypeChat, "%s generation error: %s", tool, err)
	if errors.Is(err, ai.ErrNotConfigured) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, tool, err)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
