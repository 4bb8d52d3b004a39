package internal

import (
	"net/http"
	"studymate/internal/controllers"
	"studymate/internal/providers"
)

func InitRoutes(
	apiController *controllers.ApiController,
	sessionController *controllers.SessionController,
	toolsController *controllers.ToolsController,
	chatController *controllers.ChatController,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Post("/stats/streak", http.HandlerFunc(apiController.UpdateStreak))
	routers.Post("/stats/premium", http.HandlerFunc(apiController.UnlockPremium))
	routers.Get("/logs", http.HandlerFunc(apiController.GetLogs))
	routers.Get("/quota/image", http.HandlerFunc(apiController.GetImageQuota))
	routers.Post("/parent/overview", http.HandlerFunc(apiController.ParentOverview))

	routers.Get("/sessions", http.HandlerFunc(sessionController.ListSessions))
	routers.Post("/sessions", http.HandlerFunc(sessionController.CreateSession))
	routers.Get("/session", http.HandlerFunc(sessionController.GetSession))
	routers.Delete("/session", http.HandlerFunc(sessionController.DeleteSession))
	routers.Post("/session/message", http.HandlerFunc(sessionController.SendMessage))
	routers.Post("/session/image", http.HandlerFunc(sessionController.GenerateImage))
	routers.Get("/chat/stream", http.HandlerFunc(chatController.Stream))

	routers.Get("/roadmap", http.HandlerFunc(toolsController.GetRoadmap))
	routers.Post("/roadmap", http.HandlerFunc(toolsController.GenerateRoadmap))
	routers.Delete("/roadmap", http.HandlerFunc(toolsController.ClearRoadmap))
	routers.Post("/roadmap/toggle", http.HandlerFunc(toolsController.ToggleStep))

	routers.Get("/flashcards", http.HandlerFunc(toolsController.GetFlashcards))
	routers.Post("/flashcards", http.HandlerFunc(toolsController.GenerateFlashcards))
	routers.Delete("/flashcards", http.HandlerFunc(toolsController.ClearFlashcards))
	routers.Post("/flashcards/mark", http.HandlerFunc(toolsController.MarkCard))
	routers.Post("/flashcards/reset", http.HandlerFunc(toolsController.ResetFlashcards))

	routers.Post("/quiz", http.HandlerFunc(toolsController.GenerateQuiz))
	routers.Post("/quiz/answer", http.HandlerFunc(toolsController.AnswerQuiz))
	routers.Post("/quiz/result", http.HandlerFunc(toolsController.FinishQuiz))
	routers.Post("/summary", http.HandlerFunc(toolsController.Summarize))
	routers.Post("/notes", http.HandlerFunc(toolsController.DetailedNotes))
	routers.Post("/guide", http.HandlerFunc(toolsController.BoardGuide))
	routers.Post("/suggestions", http.HandlerFunc(toolsController.Suggestions))
	routers.Post("/live", http.HandlerFunc(toolsController.RecordLiveSession))
	return routers
}
