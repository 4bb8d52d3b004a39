package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"studymate/internal/ai"
	"studymate/internal/models"
	"studymate/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tutorFixture struct {
	*fixture
	gen        *testutil.MockGenerator
	sessions   *SessionService
	statsSvc   StatsServiceInterface
	activity   ActivityServiceInterface
	flashcards FlashcardServiceInterface
	roadmap    RoadmapServiceInterface
	tutor      TutorServiceInterface
	sessionID  string
}

func newTutorFixture(t *testing.T) *tutorFixture {
	t.Helper()
	f := newFixture(t, 0)
	tf := &tutorFixture{fixture: f, gen: &testutil.MockGenerator{}}
	tf.sessions = f.sessions()
	tf.statsSvc = f.stats()
	tf.activity = f.activity()
	tf.flashcards = NewFlashcardService(f.store, f.logger)
	tf.roadmap = NewRoadmapService(f.store, f.logger)
	quota := NewImageQuotaService(f.conf, tf.statsSvc, f.metrics)
	tf.tutor = NewTutorService(f.conf, tf.gen, tf.sessions, tf.statsSvc, tf.activity, quota,
		tf.flashcards, tf.roadmap, f.notifier, f.clock, f.logger)
	tf.sessionID = tf.sessions.CreateSession().ID
	return tf
}

func TestTutor_SendMessageStreamsReply(t *testing.T) {
	tf := newTutorFixture(t)
	var updates []StreamUpdate

	turn, err := tf.tutor.SendMessage(context.Background(), tf.sessionID, "What is the speed of light in vacuum exactly?", "", func(u StreamUpdate) {
		updates = append(updates, u)
	})
	require.NoError(t, err)

	assert.Equal(t, "Here is the answer.", turn.Reply.Text)
	assert.False(t, turn.Flagged)
	assert.Equal(t, SaveSaved, turn.Status)
	require.NotEmpty(t, updates)
	assert.Equal(t, "Here is the answer.", updates[len(updates)-1].Text)

	s, err := tf.sessions.LoadSession(tf.sessionID)
	require.NoError(t, err)
	require.Len(t, s.Messages, 3)
	assert.Equal(t, models.RoleUser, s.Messages[1].Role)
	assert.Equal(t, "Here is the answer.", s.Messages[2].Text)
	assert.False(t, s.Messages[2].IsTyping)
	assert.Equal(t, "What is the speed of light in ...", s.Title)
	assert.False(t, tf.sessions.IsStreaming(tf.sessionID))

	stored := tf.persisted()
	assert.Equal(t, "Here is the answer.", stored[0].Messages[2].Text)

	assert.Equal(t, 1, tf.statsSvc.GetStats().QuestionsAsked)
	logs := tf.activity.List()
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActivityChat, logs[0].Type)
	assert.Equal(t, "Study Question", logs[0].Topic)
	assert.Equal(t, "What is the speed of light in ...", logs[0].Details)
}

func TestTutor_SendMessagePassesHistoryAndImage(t *testing.T) {
	tf := newTutorFixture(t)
	var gotHistory []models.ChatMessage
	var gotImage string
	tf.gen.StreamFn = func(history []models.ChatMessage, _, image string, onChunk func(string)) error {
		gotHistory, gotImage = history, image
		onChunk("A leaf cell.")
		return nil
	}

	_, err := tf.tutor.SendMessage(context.Background(), tf.sessionID, "", "data:image/png;base64,AAAA", nil)
	require.NoError(t, err)

	require.Len(t, gotHistory, 1)
	assert.Equal(t, models.WelcomeMessageID, gotHistory[0].ID)
	assert.Equal(t, "data:image/png;base64,AAAA", gotImage)
	assert.Equal(t, "Image Analysis Request", tf.activity.List()[0].Topic)
}

func TestTutor_SendMessageFlagged(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.StreamFn = func(_ []models.ChatMessage, _, _ string, onChunk func(string)) error {
		for _, c := range []string{"[[FLAGGED: Unsafe", " Topic]] Let's focus", " on your studies."} {
			onChunk(c)
		}
		return nil
	}
	var texts []string

	turn, err := tf.tutor.SendMessage(context.Background(), tf.sessionID, "something bad", "", func(u StreamUpdate) {
		texts = append(texts, u.Text)
	})
	require.NoError(t, err)

	assert.True(t, turn.Flagged)
	assert.Equal(t, "Unsafe Topic", turn.Reason)
	assert.Equal(t, "Let's focus on your studies.", turn.Reply.Text)
	assert.Equal(t, []string{"[[FLAGGED: Unsafe", "Let's focus", "Let's focus on your studies."}, texts)

	alerts := 0
	for _, l := range tf.activity.List() {
		if l.Type == models.ActivityAlert {
			alerts++
			assert.Equal(t, "Inappropriate/Unhealthy Content Detected", l.Topic)
			assert.Equal(t, "Unsafe Topic", l.Details)
		}
	}
	assert.Equal(t, 1, alerts)

	sent := tf.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, ParentAlertTitle, sent[0].Title)
	assert.Equal(t, "Flagged content detected in study session: Unsafe Topic", sent[0].Body)
}

func TestTutor_SendMessageStreamError(t *testing.T) {
	tf := newTutorFixture(t)
	boom := errors.New("network down")
	tf.gen.StreamFn = func(_ []models.ChatMessage, _, _ string, onChunk func(string)) error {
		onChunk("Partial")
		return boom
	}

	turn, err := tf.tutor.SendMessage(context.Background(), tf.sessionID, "hello", "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, turn.AIError, boom)
	assert.Equal(t, "Partial"+StreamErrorText, turn.Reply.Text)
	assert.False(t, tf.sessions.IsStreaming(tf.sessionID))
}

func TestTutor_SendMessageRejects(t *testing.T) {
	tf := newTutorFixture(t)
	ctx := context.Background()

	_, err := tf.tutor.SendMessage(ctx, tf.sessionID, "   ", "", nil)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	_, err = tf.tutor.SendMessage(ctx, "missing", "hi", "", nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, tf.sessions.SetStreaming(tf.sessionID, true))
	_, err = tf.tutor.SendMessage(ctx, tf.sessionID, "hi", "", nil)
	assert.ErrorIs(t, err, ErrStreamInProgress)
}

func TestTutor_SendMessageConcurrentSendsOneWins(t *testing.T) {
	tf := newTutorFixture(t)
	release := make(chan struct{})
	tf.gen.StreamFn = func(_ []models.ChatMessage, _, _ string, onChunk func(string)) error {
		<-release
		onChunk("Done.")
		return nil
	}

	const senders = 8
	errs := make(chan error, senders)
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tf.tutor.SendMessage(context.Background(), tf.sessionID, "hi", "", nil)
			errs <- err
		}()
	}

	// every loser returns before the winner's stream is released
	for i := 0; i < senders-1; i++ {
		assert.ErrorIs(t, <-errs, ErrStreamInProgress)
	}
	close(release)
	wg.Wait()
	assert.NoError(t, <-errs)

	s, err := tf.sessions.LoadSession(tf.sessionID)
	require.NoError(t, err)
	assert.Len(t, s.Messages, 3)
	assert.Equal(t, 1, tf.statsSvc.GetStats().QuestionsAsked)
	assert.False(t, tf.sessions.IsStreaming(tf.sessionID))
}

func TestTutor_GenerateImage(t *testing.T) {
	tf := newTutorFixture(t)
	ctx := context.Background()

	turn, err := tf.tutor.GenerateImage(ctx, tf.sessionID, "the water cycle", false)
	require.NoError(t, err)
	assert.Equal(t, "Generate an image: the water cycle", turn.User.Text)
	assert.Equal(t, "Here is a visual aid for: **the water cycle**", turn.Reply.Text)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", turn.Reply.ImageURL)
	assert.Equal(t, 4, turn.Remaining)
	assert.Equal(t, 1, tf.statsSvc.GetStats().ImageGenCount)

	logs := tf.activity.List()
	require.Len(t, logs, 1)
	assert.Equal(t, "Image Generation", logs[0].Topic)
	assert.Equal(t, "the water cycle", logs[0].Details)
}

func TestTutor_GenerateImageQuota(t *testing.T) {
	tf := newTutorFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tf.tutor.GenerateImage(ctx, tf.sessionID, "cells", false)
		require.NoError(t, err)
	}
	_, err := tf.tutor.GenerateImage(ctx, tf.sessionID, "cells", false)
	assert.ErrorIs(t, err, ErrImageLimitReached)

	turn, err := tf.tutor.GenerateImage(ctx, tf.sessionID, "cells", true)
	require.NoError(t, err)
	assert.Equal(t, 0, turn.Remaining)
	assert.Equal(t, 5, tf.statsSvc.GetStats().ImageGenCount)
	assert.Equal(t, 1, tf.metrics.ImageGenerations[true])
}

func TestTutor_GenerateImageFailure(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.ImageFn = func(string) (string, error) { return "", errors.New("no image") }

	turn, err := tf.tutor.GenerateImage(context.Background(), tf.sessionID, "cells", false)
	require.NoError(t, err)
	assert.Error(t, turn.AIError)
	assert.Equal(t, ImageFailureText, turn.Reply.Text)
	assert.Empty(t, turn.Reply.ImageURL)
	assert.Equal(t, 1, tf.statsSvc.GetStats().ImageGenCount)
}

func TestTutor_Quiz(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.JSONResponse = `{"topic":"Cells","questions":[{"id":"q1","question":"Powerhouse?","options":["Mitochondria","Nucleus"],"correctAnswer":"Mitochondria","explanation":"ATP"}]}`

	quiz, err := tf.tutor.GenerateQuiz(context.Background(), "Cells", "Hard")
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, ai.QuizPrompt("Cells", "Hard"), tf.gen.LastPrompt())

	tf.tutor.RecordQuizAnswer(true)
	require.NoError(t, tf.tutor.RecordQuizResult("Cells", 1, 1))
	assert.ErrorIs(t, tf.tutor.RecordQuizResult("Cells", 2, 1), ErrInvalidScore)

	stats := tf.statsSvc.GetStats()
	assert.Equal(t, 1, stats.QuizzesTaken)
	assert.Equal(t, 1, stats.CorrectAnswers)

	logs := tf.activity.List()
	require.Len(t, logs, 2)
	assert.Equal(t, "Completed quiz on Cells", logs[0].Topic)
	assert.Equal(t, "Score: 1/1", logs[0].Details)
	assert.Equal(t, "Generated Hard quiz on Cells", logs[1].Topic)
}

func TestTutor_QuizMalformed(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.JSONResponse = `not json`

	_, err := tf.tutor.GenerateQuiz(context.Background(), "Cells", "Easy")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Empty(t, tf.activity.List())
}

func TestTutor_Flashcards(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.JSONResponse = `[{"front":"ATP","back":"Energy"},{"front":"DNA","back":"Code"}]`

	deck, err := tf.tutor.GenerateFlashcards(context.Background(), "Biology")
	require.NoError(t, err)
	require.Len(t, deck.Cards, 2)
	assert.Equal(t, "1710061200000-0", deck.Cards[0].ID)
	assert.Equal(t, "1710061200000-1", deck.Cards[1].ID)
	assert.Equal(t, models.CardNew, deck.Cards[1].Status)
	assert.True(t, strings.HasPrefix(tf.gen.LastPrompt(), "Create 8 flashcards"))

	stored, ok := tf.flashcards.Get()
	require.True(t, ok)
	assert.Equal(t, "Biology", stored.Topic)
	assert.Equal(t, "Created deck for Biology", tf.activity.List()[0].Topic)
}

func TestTutor_Roadmap(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.JSONResponse = `[{"title":"Week 1","duration":"7 days","description":"Basics","keyTopics":["a"]},{"title":"Week 2","duration":"7 days","description":"More","keyTopics":["b"]}]`

	state, err := tf.tutor.GenerateRoadmap(context.Background(), "Algebra", "2 weeks")
	require.NoError(t, err)
	assert.Equal(t, "step-0", state.Steps[0].ID)
	assert.Equal(t, "step-1", state.Steps[1].ID)

	stored, ok := tf.roadmap.Get()
	require.True(t, ok)
	assert.Equal(t, "Algebra", stored.Goal)
	assert.Equal(t, "Generated plan for: Algebra", tf.activity.List()[0].Topic)
}

func TestTutor_TextTools(t *testing.T) {
	tf := newTutorFixture(t)
	var usedModels []string
	tf.gen.TextFn = func(model, prompt string) (string, error) {
		usedModels = append(usedModels, model)
		return "ok", nil
	}
	ctx := context.Background()

	out, err := tf.tutor.Summarize(ctx, "Mitochondria make ATP.")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, ai.SummaryPrompt("Mitochondria make ATP."), tf.gen.LastPrompt())

	_, err = tf.tutor.DetailedNotes(ctx, "Optics")
	require.NoError(t, err)

	_, err = tf.tutor.BoardGuide(ctx, "10", "History")
	assert.ErrorIs(t, err, ErrPremiumRequired)
	tf.statsSvc.UnlockPremium()
	_, err = tf.tutor.BoardGuide(ctx, "10", "History")
	require.NoError(t, err)

	assert.Equal(t, []string{"chat-model", "notes-model", "chat-model"}, usedModels)

	logs := tf.activity.List()
	require.Len(t, logs, 3)
	assert.Equal(t, models.ActivityPremium, logs[0].Type)
	assert.Equal(t, "Generated guide for Class 10 History", logs[0].Topic)
	assert.Equal(t, "Unlocked Extra Notes for Optics", logs[1].Topic)
	assert.Equal(t, "Paid ₹5.00", logs[1].Details)
	assert.Equal(t, models.ActivitySummary, logs[2].Type)

	_, err = tf.tutor.Summarize(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestTutor_Suggestions(t *testing.T) {
	tf := newTutorFixture(t)
	ctx := context.Background()

	assert.Empty(t, tf.tutor.Suggestions(ctx, "ph"))
	assert.Empty(t, tf.gen.Prompts)

	tf.gen.JSONResponse = `["What is photosynthesis?","Where does photosynthesis happen?","Why is photosynthesis important?"]`
	assert.Len(t, tf.tutor.Suggestions(ctx, "photo"), 3)

	tf.gen.JSONFn = func(string, any) error { return errors.New("down") }
	got := tf.tutor.Suggestions(ctx, "photo")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTutor_NotConfiguredPassesThrough(t *testing.T) {
	tf := newTutorFixture(t)
	tf.gen.TextFn = func(string, string) (string, error) { return "", ai.ErrNotConfigured }

	_, err := tf.tutor.Summarize(context.Background(), "notes")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	assert.NotErrorIs(t, err, ErrGenerationFailed)
}

func TestTutor_LiveSession(t *testing.T) {
	tf := newTutorFixture(t)
	require.NoError(t, tf.tutor.RecordLiveSession(""))

	logs := tf.activity.List()
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActivityLive, logs[0].Type)
	assert.Equal(t, "Language Practice Session", logs[0].Topic)
}
