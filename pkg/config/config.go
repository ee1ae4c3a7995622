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

// Mirror backend identifiers.
const (
	MirrorFile  = "file"
	MirrorRedis = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	API    APIConfig
	Redis  RedisConfig
	Mirror MirrorConfig
	CORS   CORSConfig
	Log    LogConfig
	Export ExportConfig
}

// APIConfig points the client at a TAPP backend.
type APIConfig struct {
	BaseURL        string
	Role           string
	SessionID      int
	MockAPI        bool
	RequestTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MirrorConfig selects where the active session/role subset is persisted.
type MirrorConfig struct {
	Backend  string
	FilePath string
	RedisKey string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls where rendered exports land on disk.
type ExportConfig struct {
	StorageDir string
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

	cfg.API = APIConfig{
		BaseURL:        strings.TrimRight(v.GetString("TAPP_BASE_URL"), "/"),
		Role:           v.GetString("TAPP_ROLE"),
		SessionID:      v.GetInt("TAPP_SESSION_ID"),
		MockAPI:        v.GetBool("TAPP_MOCK_API"),
		RequestTimeout: parseDuration(v.GetString("TAPP_REQUEST_TIMEOUT"), 30*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Mirror = MirrorConfig{
		Backend:  v.GetString("MIRROR_BACKEND"),
		FilePath: v.GetString("MIRROR_FILE_PATH"),
		RedisKey: v.GetString("MIRROR_REDIS_KEY"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{
		StorageDir: v.GetString("EXPORT_STORAGE_DIR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8090)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("TAPP_BASE_URL", "http://localhost:3000/api/v1")
	v.SetDefault("TAPP_ROLE", "admin")
	v.SetDefault("TAPP_SESSION_ID", 0)
	v.SetDefault("TAPP_MOCK_API", false)
	v.SetDefault("TAPP_REQUEST_TIMEOUT", "30s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MIRROR_BACKEND", MirrorFile)
	v.SetDefault("MIRROR_FILE_PATH", "./tapp_state.json")
	v.SetDefault("MIRROR_REDIS_KEY", "tapp:client:state")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORT_STORAGE_DIR", "./exports")
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
