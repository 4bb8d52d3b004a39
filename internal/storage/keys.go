package storage

const (
	KeyStats       = "studymate_stats"
	KeySessions    = "studymate_chat_sessions_v2"
	KeyActivity    = "studymate_activity_logs"
	KeyRoadmap     = "studymate_active_roadmap"
	KeyFlashcards  = "studymate_active_flashcards"
	sqliteFileName = "studymate.db"
)
