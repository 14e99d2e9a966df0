package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
	SessionTTL         time.Duration
	OtelEnabled        bool
}

type DatabaseConfig struct {
	// Postgres DSN, or "sqlite:<path>". Empty means the local SQLite file below.
	Connection string
	SQLitePath string
}

type APIKeys struct {
	GoogleGemini string
	Groq         []string // rotated on quota errors
}

type AIConfig struct {
	LLMProvider   string // "groq", "gemini" or "ollama"
	LLMModel      string
	OllamaBaseURL string
	GroqBaseURL   string
	Timeout       time.Duration
	PromptsFile   string

	MaxMessageLength int

	GrammarTemperature  float64
	GrammarMaxTokens    int
	TutorTemperature    float64
	TutorMaxTokens      int
	ChatTemperature     float64
	ChatMaxTokens       int
	FeedbackTemperature float64
	FeedbackMaxTokens   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "tutor.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DATABASE_URL", ""),
			SQLitePath: getEnv("SQLITE_PATH", "tutor.db"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Groq:         groqKeys(),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "groq"),
			LLMModel:      llmModel(),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GroqBaseURL:   getEnv("GROQ_BASE_URL", ""),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			PromptsFile:   getEnv("PROMPTS_FILE", ""),

			MaxMessageLength: getEnvAsInt("MAX_MESSAGE_LENGTH", 2000),

			GrammarTemperature:  getEnvAsFloat("GRAMMAR_TEMPERATURE", 0.3),
			GrammarMaxTokens:    getEnvAsInt("GRAMMAR_MAX_TOKENS", 500),
			TutorTemperature:    getEnvAsFloat("TUTOR_TEMPERATURE", 0.7),
			TutorMaxTokens:      getEnvAsInt("TUTOR_MAX_TOKENS", 500),
			ChatTemperature:     getEnvAsFloat("CHAT_TEMPERATURE", 0.8),
			ChatMaxTokens:       getEnvAsInt("CHAT_MAX_TOKENS", 500),
			FeedbackTemperature: getEnvAsFloat("FEEDBACK_TEMPERATURE", 0.5),
			FeedbackMaxTokens:   getEnvAsInt("FEEDBACK_MAX_TOKENS", 1500),
		},
	}
}

// groqKeys reads GROQ_API_KEYS (comma separated) and falls back to GROQ_API_KEY.
func groqKeys() []string {
	raw := getEnv("GROQ_API_KEYS", getEnv("GROQ_API_KEY", ""))
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// llmModel prefers LLM_MODEL and falls back to MODEL_NAME. An empty result
// leaves the choice to the provider's own default.
func llmModel() string {
	if m := getEnv("LLM_MODEL", ""); m != "" {
		return m
	}
	return getEnv("MODEL_NAME", "")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
