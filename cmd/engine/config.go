// In file: cmd/engine/config.go
package main

import (
	"log"
	"os"

	"github.com/aj-automates/content-engine/internal/agents"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScheduleEntry is one recurring campaign from config.yaml.
type ScheduleEntry struct {
	Topic  string `yaml:"topic"`
	Every  string `yaml:"every"` // "daily" or "weekly"
	Day    string `yaml:"day"`   // weekly only: "mon".."sun"
	Hour   int    `yaml:"hour"`
	Minute int    `yaml:"minute"`
}

// FileConfig is the shape of config.yaml.
type FileConfig struct {
	BrandVoice *agents.BrandVoice `yaml:"brand_voice"`
	Schedule   []ScheduleEntry    `yaml:"schedule"`
}

// AppConfig holds all configuration for the engine, loaded from the
// environment and config.yaml.
type AppConfig struct {
	Port string

	AnthropicAPIKey string
	GeminiAPIKey    string
	SerperAPIKey    string
	SeedanceAPIKey  string
	SeedanceBaseURL string

	TwitterAccessToken string
	TwitterBearerToken string
	LinkedInToken      string
	BlueskyHandle      string
	BlueskyAppPassword string
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	TelegramBotToken   string
	TelegramChannelID  string
	SendGridAPIKey     string
	EmailFrom          string
	EmailTo            string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	DatabaseURL string
	RedisAddr   string
	AMQPURL     string

	BrandVoice *agents.BrandVoice
	Schedule   []ScheduleEntry
}

// LoadConfig loads .env (outside release mode), the environment, and
// config.yaml. Only the Anthropic key is mandatory; everything else
// degrades the matching feature.
func LoadConfig() (*AppConfig, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		Port: os.Getenv("PORT"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		SerperAPIKey:    os.Getenv("SERPER_API_KEY"),
		SeedanceAPIKey:  os.Getenv("SEEDANCE_API_KEY"),
		SeedanceBaseURL: os.Getenv("SEEDANCE_BASE_URL"),

		TwitterAccessToken: os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		LinkedInToken:      os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		BlueskyHandle:      os.Getenv("BLUESKY_HANDLE"),
		BlueskyAppPassword: os.Getenv("BLUESKY_APP_PASSWORD"),
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUsername:     os.Getenv("REDDIT_USERNAME"),
		RedditPassword:     os.Getenv("REDDIT_PASSWORD"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChannelID:  os.Getenv("TELEGRAM_CHANNEL_ID"),
		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:          os.Getenv("EMAIL_FROM"),
		EmailTo:            os.Getenv("EMAIL_TO"),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseBucket: os.Getenv("SUPABASE_BUCKET"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		AMQPURL:     os.Getenv("AMQP_URL"),
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}

	fileCfg, err := loadFileConfig("config.yaml")
	if err != nil {
		return nil, err
	}
	cfg.BrandVoice = fileCfg.BrandVoice
	cfg.Schedule = fileCfg.Schedule
	return cfg, nil
}

func loadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("WARNING: No config.yaml found, using built-in defaults.")
			return &FileConfig{}, nil
		}
		return nil, err
	}
	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}
	return &fileCfg, nil
}

// HealthKeys reports which provider credentials are present, mirrored on
// the health endpoint so the dashboard can show what is wired up.
func (c *AppConfig) HealthKeys() map[string]bool {
	return map[string]bool{
		"anthropic": c.AnthropicAPIKey != "",
		"serper":    c.SerperAPIKey != "",
		"gemini":    c.GeminiAPIKey != "",
		"twitter":   c.TwitterAccessToken != "",
		"linkedin":  c.LinkedInToken != "",
		"bluesky":   c.BlueskyHandle != "",
		"reddit":    c.RedditClientID != "",
		"telegram":  c.TelegramBotToken != "",
		"sendgrid":  c.SendGridAPIKey != "",
	}
}

// EnabledPlatforms lists the publish targets that have credentials, in
// distribution order.
func (c *AppConfig) EnabledPlatforms() []string {
	var platforms []string
	checks := map[string]bool{
		"twitter":  c.TwitterAccessToken != "",
		"linkedin": c.LinkedInToken != "",
		"bluesky":  c.BlueskyHandle != "" && c.BlueskyAppPassword != "",
		"reddit":   c.RedditClientID != "" && c.RedditClientSecret != "",
		"telegram": c.TelegramBotToken != "" && c.TelegramChannelID != "",
		"email":    c.SendGridAPIKey != "" && c.EmailFrom != "" && c.EmailTo != "",
	}
	for _, p := range agents.PublishOrder {
		if checks[p] {
			platforms = append(platforms, p)
		}
	}
	return platforms
}
