package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend" validate:"required|in:memory,file,sqlite"`
	Dir        string `yaml:"dir" validate:"required|unixPath"`
	QuotaBytes int64  `yaml:"quotaBytes" validate:"min:0"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type ChatConfig struct {
	StreamingSaveDelay time.Duration `yaml:"streamingSaveDelay" validate:"min:0"`
	IdleSaveDelay      time.Duration `yaml:"idleSaveDelay" validate:"min:0"`
	DefaultTitle       string        `yaml:"defaultTitle"`
	WelcomeText        string        `yaml:"welcomeText"`
}

type QuotaConfig struct {
	DailyImageLimit int `yaml:"dailyImageLimit" validate:"min:0"`
}

type ParentConfig struct {
	PIN string `yaml:"pin" validate:"required"`
}

type ReminderConfig struct {
	Enabled             bool          `yaml:"enabled"`
	CheckInterval       time.Duration `yaml:"checkInterval"`
	InactivityThreshold time.Duration `yaml:"inactivityThreshold"`
}

type AIConfig struct {
	APIKey        string `yaml:"apiKey"`
	ChatModel     string `yaml:"chatModel"`
	NotesModel    string `yaml:"notesModel"`
	ImageModel    string `yaml:"imageModel"`
	ImageEndpoint string `yaml:"imageEndpoint"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Timezone  string         `yaml:"timezone"`
	WebServer Server         `yaml:"webServer"`
	Storage   StorageConfig  `yaml:"storage"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Chat      ChatConfig     `yaml:"chat"`
	Quota     QuotaConfig    `yaml:"quota"`
	Parent    ParentConfig   `yaml:"parent"`
	Reminder  ReminderConfig `yaml:"reminder"`
	AI        AIConfig       `yaml:"ai"`
}

// ApplyDefaults fills the values that have a product default when the
// config file leaves them empty.
func (c *Config) ApplyDefaults() {
	if c.Chat.StreamingSaveDelay == 0 {
		c.Chat.StreamingSaveDelay = 2 * time.Second
	}
	if c.Chat.DefaultTitle == "" {
		c.Chat.DefaultTitle = "New Chat"
	}
	if c.Chat.WelcomeText == "" {
		c.Chat.WelcomeText = "Hi! I'm StudyMate. Ask me anything about your studies, upload a picture of a homework question, or request a diagram!"
	}
	if c.Quota.DailyImageLimit == 0 {
		c.Quota.DailyImageLimit = 5
	}
	if c.Parent.PIN == "" {
		c.Parent.PIN = "1234"
	}
	if c.Reminder.CheckInterval == 0 {
		c.Reminder.CheckInterval = time.Hour
	}
	if c.Reminder.InactivityThreshold == 0 {
		c.Reminder.InactivityThreshold = 24 * time.Hour
	}
	if c.AI.ChatModel == "" {
		c.AI.ChatModel = "gemini-2.5-flash"
	}
	if c.AI.NotesModel == "" {
		c.AI.NotesModel = "gemini-3-pro-preview"
	}
	if c.AI.ImageModel == "" {
		c.AI.ImageModel = "imagen-4.0-generate-001"
	}
	if c.AI.ImageEndpoint == "" {
		c.AI.ImageEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
}
