package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
// The API-key fields double as the capability-availability descriptor: wiring
// in cmd/ checks them once and selects the remote or local provider per stage.
type Config struct {
	AppEnv           string
	Port             string
	TuningPath       string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	OpenAIAPIKey     string
	OpenAITTSModel   string
	OpenAITTSVoice   string
	OpenAIBaseURL    string
	StageTimeout     time.Duration
	RemoteRetries    int
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	// HTTPReadHeaderTimeout caps how long a client may take to send headers.
	// It stays tight independently of the generous body timeouts the large
	// generation responses need.
	HTTPReadHeaderTimeout time.Duration
	RateLimitPerMin       int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. No credential is required: a missing key simply
// routes its stage to the local fallback generator.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		TuningPath:            os.Getenv("TUNING_FILE"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAITTSModel:        getEnv("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),
		OpenAITTSVoice:        getEnv("OPENAI_TTS_VOICE", "alloy"),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		StageTimeout:          time.Second * time.Duration(getEnvInt("STAGE_TIMEOUT_SECONDS", 30)),
		RemoteRetries:         getEnvInt("REMOTE_RETRIES", 1),
		AllowedOrigins:        splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		HTTPReadHeaderTimeout: time.Second * time.Duration(getEnvInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
