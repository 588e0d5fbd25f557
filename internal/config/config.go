package config

import "os"

// Config holds everything the process reads from the environment.
// It is built once in main and passed to the components that need it,
// so nothing else reaches for os.Getenv at call time.
type Config struct {
	DatabaseURL   string
	Port          string
	SiteURL       string
	SessionSecret string

	GoogleClientID     string
	GoogleClientSecret string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func Load() Config {
	return Config{
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=dotmd port=5432 sslmode=disable"),
		Port:               getEnv("PORT", "8080"),
		SiteURL:            getEnv("SITE_URL", "http://localhost:8080"),
		SessionSecret:      getEnv("SESSION_SECRET", "secret_key_change_me"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           os.Getenv("SMTP_PORT"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		SMTPFrom:           os.Getenv("SMTP_FROM"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
