package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"studymate/internal/structures"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load(filepath.Join(filepath.Dir(flags.ConfigPath), ".env"))

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "STUDYMATE_LOG_LEVEL")
	viper.BindEnv("storage.backend", "STUDYMATE_STORAGE_BACKEND")
	viper.BindEnv("storage.quotaBytes", "STUDYMATE_STORAGE_QUOTA")
	viper.BindEnv("parent.pin", "STUDYMATE_PARENT_PIN")
	viper.BindEnv("ai.apiKey", "STUDYMATE_AI_API_KEY")
	viper.BindEnv("cache.enabled", "STUDYMATE_CACHE_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.ApplyDefaults()

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StudyMate"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
