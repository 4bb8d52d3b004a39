//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"studymate/internal"
	"studymate/internal/ai"
	"studymate/internal/controllers"
	"studymate/internal/providers"
	"studymate/internal/scheduler"
	"studymate/internal/services"
	"studymate/internal/storage"
	"studymate/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		provideLogger,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewClockProvider,
		providers.NewNotifierProvider,

		provideKVStore,
		storage.NewRecordStore,
		ai.NewGenerator,

		scheduler.NewDebouncer,
		services.NewStatsService,
		services.NewActivityService,
		services.NewSessionService,
		services.NewImageQuotaService,
		services.NewRoadmapService,
		services.NewFlashcardService,
		services.NewParentService,
		services.NewCheckoutService,
		services.NewTutorService,
		services.NewReminderService,
		provideSessionPersister,
		scheduler.NewScheduler,

		controllers.NewApiController,
		controllers.NewSessionController,
		controllers.NewToolsController,
		controllers.NewChatController,
		provideHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
