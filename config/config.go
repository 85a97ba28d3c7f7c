package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MPDHost string
	MPDPort string

	// MusicDir is the base directory scanned for playable files. It should
	// match the music_directory of the MPD server so relative paths line up.
	MusicDir string

	// RegistrationCode must be presented on /register. A single shared code,
	// not per-user invites.
	RegistrationCode string

	JWTSecret       string
	TokenTTL        time.Duration
	LibraryCacheTTL time.Duration

	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "mpdfm"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MPDHost: getEnv("MPD_HOST", "127.0.0.1"),
		MPDPort: getEnv("MPD_PORT", "6600"),

		MusicDir: getEnv("MUSIC_DIR", "/var/lib/mpd/music"),

		RegistrationCode: getEnv("REGISTRATION_CODE", "Happy"),

		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 30)) * time.Minute,
		LibraryCacheTTL: time.Duration(getEnvInt("LIBRARY_CACHE_TTL_MINUTES", 60)) * time.Minute,

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
