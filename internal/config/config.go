package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the front-end gateway.
type Config struct {
	Server   ServerConfig
	Services ServiceConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port         int           `mapstructure:"GATEWAY_PORT"`
	ReadTimeout  time.Duration `mapstructure:"GATEWAY_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"GATEWAY_WRITE_TIMEOUT"`
	RateLimit    int           `mapstructure:"GATEWAY_RATE_LIMIT"`
	GinMode      string        `mapstructure:"GIN_MODE"`
}

// ServiceConfig carries the base URLs of the backend services this client
// composes. Each service is independent; none of them live in this process.
type ServiceConfig struct {
	AuthBaseURL        string        `mapstructure:"AUTH_BASE_URL"`
	ProblemBaseURL     string        `mapstructure:"PROBLEM_BASE_URL"`
	ExecutionBaseURL   string        `mapstructure:"EXECUTION_BASE_URL"`
	DiscussionBaseURL  string        `mapstructure:"DISCUSSION_BASE_URL"`
	LeaderboardBaseURL string        `mapstructure:"LEADERBOARD_BASE_URL"`
	AIBaseURL          string        `mapstructure:"AI_BASE_URL"`
	RealtimeURL        string        `mapstructure:"REALTIME_URL"`
	RequestTimeout     time.Duration `mapstructure:"SERVICE_REQUEST_TIMEOUT"`
	DialTimeout        time.Duration `mapstructure:"REALTIME_DIAL_TIMEOUT"`
}

type SessionConfig struct {
	RefreshInterval time.Duration `mapstructure:"SESSION_REFRESH_INTERVAL"`
	CookieName      string        `mapstructure:"SESSION_COOKIE_NAME"`
	IdleTTL         time.Duration `mapstructure:"SESSION_IDLE_TTL"`
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("GATEWAY_PORT", 3000)
	viper.SetDefault("GATEWAY_READ_TIMEOUT", "10s")
	viper.SetDefault("GATEWAY_WRITE_TIMEOUT", "30s")
	viper.SetDefault("GATEWAY_RATE_LIMIT", 100)
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("AUTH_BASE_URL", "http://localhost:3100/auth")
	viper.SetDefault("PROBLEM_BASE_URL", "http://localhost:8080")
	viper.SetDefault("EXECUTION_BASE_URL", "http://localhost:8081/api")
	viper.SetDefault("DISCUSSION_BASE_URL", "http://localhost:3200")
	viper.SetDefault("LEADERBOARD_BASE_URL", "http://localhost:3300")
	viper.SetDefault("AI_BASE_URL", "http://localhost:3400")
	viper.SetDefault("REALTIME_URL", "ws://localhost:3005/socket")
	viper.SetDefault("SERVICE_REQUEST_TIMEOUT", "15s")
	viper.SetDefault("REALTIME_DIAL_TIMEOUT", "10s")
	viper.SetDefault("SESSION_REFRESH_INTERVAL", "10m")
	viper.SetDefault("SESSION_COOKIE_NAME", "codearena_session")
	viper.SetDefault("SESSION_IDLE_TTL", "12h")

	// Attempt to read .env file (non-fatal if missing)
	_ = viper.ReadInConfig()

	cfg := &Config{}
	cfg.Server.Port = viper.GetInt("GATEWAY_PORT")
	cfg.Server.ReadTimeout = viper.GetDuration("GATEWAY_READ_TIMEOUT")
	cfg.Server.WriteTimeout = viper.GetDuration("GATEWAY_WRITE_TIMEOUT")
	cfg.Server.RateLimit = viper.GetInt("GATEWAY_RATE_LIMIT")
	cfg.Server.GinMode = viper.GetString("GIN_MODE")
	cfg.Services.AuthBaseURL = viper.GetString("AUTH_BASE_URL")
	cfg.Services.ProblemBaseURL = viper.GetString("PROBLEM_BASE_URL")
	cfg.Services.ExecutionBaseURL = viper.GetString("EXECUTION_BASE_URL")
	cfg.Services.DiscussionBaseURL = viper.GetString("DISCUSSION_BASE_URL")
	cfg.Services.LeaderboardBaseURL = viper.GetString("LEADERBOARD_BASE_URL")
	cfg.Services.AIBaseURL = viper.GetString("AI_BASE_URL")
	cfg.Services.RealtimeURL = viper.GetString("REALTIME_URL")
	cfg.Services.RequestTimeout = viper.GetDuration("SERVICE_REQUEST_TIMEOUT")
	cfg.Services.DialTimeout = viper.GetDuration("REALTIME_DIAL_TIMEOUT")
	cfg.Session.RefreshInterval = viper.GetDuration("SESSION_REFRESH_INTERVAL")
	cfg.Session.CookieName = viper.GetString("SESSION_COOKIE_NAME")
	cfg.Session.IdleTTL = viper.GetDuration("SESSION_IDLE_TTL")

	return cfg, nil
}
