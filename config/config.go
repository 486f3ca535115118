package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	APP_ENV      string
	PORT         string
	APP_BASE_URL string
	DB_URL       string
	JWT_SECRET   string
	CORS_ORIGIN  string

	// Session cookie used by the HTML pages. The JSON API reads the bearer token instead.
	SESSION_COOKIE string
	COOKIE_SECURE  bool

	REDIS_ADDR     string
	REDIS_PASSWORD string
	REDIS_DB       int

	MINIO_ENDPOINT        string
	MINIO_ACCESS_KEY      string
	MINIO_SECRET_KEY      string
	MINIO_USE_SSL         bool
	STORAGE_PUBLIC_URL    string
	STORAGE_BUCKET_AVATAR string
	STORAGE_BUCKET_DEMO   string

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_FROM     string
	SMTP_PASSWORD string
	ADMIN_EMAIL   string

	SUBMISSION_RATE_PER_MIN int

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

// LoadEnv loads everything the HTTP server needs and exits when a required
// key is missing.
func LoadEnv() {
	LoadBaseEnv()
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
}

// LoadBaseEnv loads the keys shared with the worker and the CLI, none of
// which are required.
func LoadBaseEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	APP_ENV = getEnv("APP_ENV", "development")
	PORT = getEnv("PORT", "8080")
	APP_BASE_URL = getEnv("APP_BASE_URL", "http://localhost:"+PORT)
	DB_URL = getEnv("DB_URL", "")
	JWT_SECRET = getEnv("JWT_SECRET", "")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")

	SESSION_COOKIE = getEnv("SESSION_COOKIE", "vo_session")
	COOKIE_SECURE = getBool("COOKIE_SECURE", false)

	// Redis is optional: without it the cache is in-process and notifications are only logged.
	REDIS_ADDR = getEnv("REDIS_ADDR", "")
	REDIS_PASSWORD = getEnv("REDIS_PASSWORD", "")
	REDIS_DB = getInt("REDIS_DB", 0)

	MINIO_ENDPOINT = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MINIO_ACCESS_KEY = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MINIO_SECRET_KEY = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MINIO_USE_SSL = getBool("MINIO_USE_SSL", false)
	STORAGE_PUBLIC_URL = getEnv("STORAGE_PUBLIC_URL", "")
	STORAGE_BUCKET_AVATAR = getEnv("STORAGE_BUCKET_AVATAR", "avatars")
	STORAGE_BUCKET_DEMO = getEnv("STORAGE_BUCKET_DEMO", "demos")

	SMTP_HOST = getEnv("SMTP_HOST", "localhost")
	SMTP_PORT = getEnv("SMTP_PORT", "1025")
	SMTP_FROM = getEnv("SMTP_FROM", "noreply@vo-directory.local")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	ADMIN_EMAIL = getEnv("ADMIN_EMAIL", "admin@vo-directory.local")

	SUBMISSION_RATE_PER_MIN = getInt("SUBMISSION_RATE_PER_MIN", 5)

	// Google sign-in is enabled only when the client id is set.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
}

// GoogleEnabled reports whether the Google OAuth routes should be mounted.
func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func IsProduction() bool {
	return APP_ENV == "production"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
