package di

import (
	"studymate/internal/controllers"
	"studymate/internal/providers"
	"studymate/internal/scheduler/interfaces"
	"studymate/internal/services"
	"studymate/internal/storage"
	"studymate/internal/structures"
)

func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

func provideKVStore(conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface) (storage.KVStore, func(), error) {
	kv, err := storage.NewKVStore(conf, logger, cache)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := kv.Close(); err != nil {
			logger.Errorf(providers.TypeStorage, "Close storage: %s", err)
		}
	}
	return kv, cleanup, nil
}

// The chat sessions are the only state with delayed writes.
func provideSessionPersister(sessions services.SessionServiceInterface) interfaces.PersisterInterface {
	return sessions
}

func provideHealthController(sessions services.SessionServiceInterface, kv storage.KVStore, conf *structures.Config) *controllers.HealthController {
	return controllers.NewHealthController(sessions, kv, conf.Storage.QuotaBytes)
}
