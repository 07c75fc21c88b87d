package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data must be provided via the environment or a .env file.
type AppConfig struct {
	AppPort     string
	JWTSecret   string
	TokenTTLMin int

	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Single allowed browser origin, credentials enabled.
	CORSOrigin string

	RateLimitPerMinute int

	// Gin framework configuration
	GinMode string
	GinPath string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Filesystem root for uploaded images, served under /storage.
	StorageDir string
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot. Precedence: .env file ->
// defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = godotenv.Load()

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyDefaults(c *AppConfig) {
	c.AppPort = "8000"
	c.TokenTTLMin = 60 * 24
	c.DBHost = "127.0.0.1"
	c.DBPort = "3306"
	c.DBUser = "gamehive"
	c.DBName = "gamehive"
	c.RedisHost = "127.0.0.1"
	c.RedisPort = 6379
	c.CORSOrigin = "http://localhost:3000"
	c.RateLimitPerMinute = 60
	c.GinMode = "release"
	c.GinPath = "logs/gin.log"
	c.LogLevel = "info"
	c.LogPath = "logs/app.log"
	c.LogMaxSizeMB = 100
	c.LogMaxBackups = 3
	c.LogMaxAgeDays = 7
	c.StorageDir = "storage"
}

func applyEnvOverrides(c *AppConfig) {
	setStr(&c.AppPort, "APP_PORT")
	setStr(&c.JWTSecret, "JWT_SECRET")
	setInt(&c.TokenTTLMin, "TOKEN_TTL_MINUTES")

	setStr(&c.DatabaseURI, "DATABASE_URI")
	setStr(&c.DBHost, "DB_HOST")
	setStr(&c.DBPort, "DB_PORT")
	setStr(&c.DBUser, "DB_USER")
	setStr(&c.DBPassword, "DB_PASSWORD")
	setStr(&c.DBName, "DB_NAME")

	setStr(&c.RedisHost, "REDIS_HOST")
	setInt(&c.RedisPort, "REDIS_PORT")
	setInt(&c.RedisDB, "REDIS_DB")
	setStr(&c.RedisPassword, "REDIS_PASSWORD")

	setStr(&c.CORSOrigin, "CORS_ORIGIN")
	setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")

	setStr(&c.GinMode, "GIN_MODE")
	setStr(&c.GinPath, "GIN_LOG_PATH")

	setStr(&c.LogLevel, "LOG_LEVEL")
	setStr(&c.LogPath, "LOG_PATH")
	setInt(&c.LogMaxSizeMB, "LOG_MAX_SIZE_MB")
	setInt(&c.LogMaxBackups, "LOG_MAX_BACKUPS")
	setInt(&c.LogMaxAgeDays, "LOG_MAX_AGE_DAYS")
	setBool(&c.LogCompress, "LOG_COMPRESS")

	setStr(&c.StorageDir, "STORAGE_DIR")
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
