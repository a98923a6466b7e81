package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	ServerAddr    string
	PublicBaseURL string
	PublicDir     string

	StorePath  string
	UploadsDir string

	FrontendOrigin string

	ClosedWeekdays []int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	RatesAPIURL      string
	RatesCacheTTLSec int

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTLSeconds int

	RateLimitAppointments int
	RateLimitWindowSec    int

	AdminAPIKey       string
	AdminUser         string
	AdminPassword     string
	JWTSecret         string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	CookieSecure      bool
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := getEnv("PORT", "3000")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		ServerAddr:            getEnv("SERVER_ADDR", ":"+port),
		PublicBaseURL:         getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		PublicDir:             getEnv("PUBLIC_DIR", "public"),
		StorePath:             getEnv("STORE_PATH", "data/store.json"),
		UploadsDir:            getEnv("UPLOADS_DIR", "uploads"),
		FrontendOrigin:        getEnv("FRONTEND_ORIGIN", ""),
		ClosedWeekdays:        parseClosedWeekdays(os.Getenv("CLOSED_WEEKDAYS")),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              getEnvInt("SMTP_PORT", 587),
		SMTPUser:              getEnv("SMTP_USER", ""),
		SMTPPass:              getEnv("SMTP_PASS", ""),
		SMTPFrom:              getEnv("SMTP_FROM", ""),
		RatesAPIURL:           getEnv("RATES_API_URL", "https://open.er-api.com/v6/latest/USD"),
		RatesCacheTTLSec:      getEnvInt("RATES_CACHE_TTL_SEC", 300),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:       getEnvInt("CACHE_TTL_SECONDS", 60),
		RateLimitAppointments: getEnvInt("RATE_LIMIT_APPOINTMENTS", 10),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		AdminAPIKey:           getEnv("ADMIN_API_KEY", ""),
		AdminUser:             getEnv("ADMIN_USER", "admin"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:      getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes:     getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:          getEnv("COOKIE_SECURE", "false") == "true",
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	return cfg, nil
}

// parseClosedWeekdays reads a comma-separated list of weekday indices
// (0 = Sunday). The office default is Friday.
func parseClosedWeekdays(raw string) []int {
	if strings.TrimSpace(raw) == "" {
		return []int{5}
	}
	days := make([]int, 0, 7)
	for _, part := range strings.Split(raw, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 0 || day > 6 {
			continue
		}
		days = append(days, day)
	}
	return days
}
