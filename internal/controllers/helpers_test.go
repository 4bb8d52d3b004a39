package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"studymate/internal/scheduler"
	"studymate/internal/services"
	"studymate/internal/storage"
	"studymate/internal/structures"
	"studymate/internal/testutil"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	conf       *structures.Config
	kv         *storage.MemoryStore
	logger     *testutil.MockLogger
	notifier   *testutil.MockNotifier
	gen        *testutil.MockGenerator
	stats      services.StatsServiceInterface
	activity   services.ActivityServiceInterface
	sessions   services.SessionServiceInterface
	roadmap    services.RoadmapServiceInterface
	flashcards services.FlashcardServiceInterface
	tutor      services.TutorServiceInterface

	api     *ApiController
	session *SessionController
	tools   *ToolsController
	chat    *ChatController
	health  *HealthController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &structures.Config{
		Chat: structures.ChatConfig{
			StreamingSaveDelay: 2 * time.Second,
			DefaultTitle:       "New Chat",
			WelcomeText:        "Hi! I'm StudyMate.",
		},
		Quota:  structures.QuotaConfig{DailyImageLimit: 5},
		Parent: structures.ParentConfig{PIN: "1234"},
		AI:     structures.AIConfig{ChatModel: "chat-model", NotesModel: "notes-model"},
	}
	f := &fixture{
		conf:     conf,
		kv:       storage.NewMemoryStore(0),
		logger:   &testutil.MockLogger{},
		notifier: &testutil.MockNotifier{},
		gen:      &testutil.MockGenerator{},
	}
	clock := testutil.NewMockClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	metrics := testutil.NewMockMetrics()
	store := storage.NewRecordStore(f.kv, f.logger, metrics)

	f.stats = services.NewStatsService(store, clock, f.logger)
	f.activity = services.NewActivityService(store, clock, f.logger)
	f.sessions = services.NewSessionService(conf, store, clock, f.logger, metrics, scheduler.NewDebouncer())
	require.NoError(t, f.sessions.Restore())
	f.roadmap = services.NewRoadmapService(store, f.logger)
	f.flashcards = services.NewFlashcardService(store, f.logger)
	quota := services.NewImageQuotaService(conf, f.stats, metrics)
	parent := services.NewParentService(conf, f.stats, f.activity, f.logger)
	checkout := services.NewCheckoutService(f.stats, f.activity, f.logger)
	f.tutor = services.NewTutorService(conf, f.gen, f.sessions, f.stats, f.activity, quota,
		f.flashcards, f.roadmap, f.notifier, clock, f.logger)

	f.api = NewApiController(f.logger, f.stats, f.activity, quota, parent, checkout)
	f.session = NewSessionController(f.logger, f.sessions, f.tutor, checkout)
	f.tools = NewToolsController(f.logger, f.tutor, f.roadmap, f.flashcards, checkout)
	f.chat = NewChatController(f.logger, f.sessions, f.tutor)
	f.health = NewHealthController(f.sessions, f.kv, 0)
	return f
}

func (f *fixture) sessionID(t *testing.T) string {
	t.Helper()
	list := f.sessions.ListSessions()
	require.NotEmpty(t, list)
	return list[0].ID
}

func call(handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func validCard() services.PaymentForm {
	return services.PaymentForm{
		Method:     services.PaymentCard,
		CardNumber: "4242 4242 4242 4242",
		CardName:   "Asha Rao",
		Expiry:     "12/27",
		CVV:        "123",
	}
}
