package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Gemini  GeminiConfig
	Planner PlannerConfig
	Chat    ChatConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Storage StorageConfig
	CORS    CORSConfig
	Log     LogConfig
}

// GeminiConfig carries the oracle credentials and model names. It is read once
// at startup and handed to the oracle client by value; core logic never touches
// the environment.
type GeminiConfig struct {
	APIKey      string
	Model       string
	VisionModel string
}

// PlannerConfig tunes the generate-validate loop.
type PlannerConfig struct {
	MaxAttempts int
	CacheTTL    time.Duration
}

// ChatConfig gates the supportive-chat endpoint.
type ChatConfig struct {
	Enabled bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig controls optional bearer-token verification.
type AuthConfig struct {
	Enabled bool
	Secret  string
}

// StorageConfig locates uploaded datesheet images on disk.
type StorageConfig struct {
	UploadsDir     string
	MaxUploadBytes int64
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Gemini = GeminiConfig{
		APIKey:      strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		Model:       v.GetString("GEMINI_MODEL"),
		VisionModel: v.GetString("GEMINI_VISION_MODEL"),
	}

	maxAttempts := v.GetInt("PLANNER_MAX_ATTEMPTS")
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	cfg.Planner = PlannerConfig{
		MaxAttempts: maxAttempts,
		CacheTTL:    parseDuration(v.GetString("PLANNER_CACHE_TTL"), 24*time.Hour),
	}

	cfg.Chat = ChatConfig{Enabled: v.GetBool("ENABLE_CHAT")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("ENABLE_AUTH"),
		Secret:  v.GetString("JWT_SECRET"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Storage = StorageConfig{
		UploadsDir:     v.GetString("UPLOADS_DIR"),
		MaxUploadBytes: maxUpload,
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_VISION_MODEL", "gemini-2.5-flash")

	v.SetDefault("PLANNER_MAX_ATTEMPTS", 3)
	v.SetDefault("PLANNER_CACHE_TTL", "24h")
	v.SetDefault("ENABLE_CHAT", true)

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_AUTH", false)
	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 10*1024*1024)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
