// Package config loads the voice agent configuration from the environment.
package config

import (
	"os"
	"strings"
)

// Defaults for overridable settings.
const (
	DefaultPort        = "8080"
	DefaultMurfAPIURL  = "https://api.murf.ai/v1/speech/generate"
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultStaticDir   = "./static"
	DefaultSTTProvider = "assemblyai"
	DefaultLLMProvider = "gemini"
)

// Settings holds everything sourced from the environment at startup.
// A missing or placeholder credential does not abort startup: it disables
// the corresponding client and the chat endpoint degrades to 503.
type Settings struct {
	Port      string
	LogLevel  string
	StaticDir string

	// Credentials for the three upstream services.
	AssemblyAIKey string
	GeminiKey     string
	MurfKey       string

	// Alternate provider selection and credentials.
	STTProvider string // "assemblyai" or "google"
	LLMProvider string // "gemini" or "openai"
	OpenAIKey   string

	// Overridable upstream endpoints and models.
	MurfAPIURL  string
	GeminiModel string
}

// Load reads Settings from the environment, applying defaults.
func Load() Settings {
	return Settings{
		Port:          envOr("PORT", DefaultPort),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		StaticDir:     envOr("STATIC_DIR", DefaultStaticDir),
		AssemblyAIKey: Credential(os.Getenv("ASSEMBLYAI_API_KEY")),
		GeminiKey:     Credential(os.Getenv("GEMINI_API_KEY")),
		MurfKey:       Credential(os.Getenv("MURF_API_KEY")),
		STTProvider:   envOr("STT_PROVIDER", DefaultSTTProvider),
		LLMProvider:   envOr("LLM_PROVIDER", DefaultLLMProvider),
		OpenAIKey:     Credential(os.Getenv("OPENAI_API_KEY")),
		MurfAPIURL:    envOr("MURF_API_URL", DefaultMurfAPIURL),
		GeminiModel:   envOr("GEMINI_MODEL", DefaultGeminiModel),
	}
}

// Credential normalizes an API key value. Values still carrying the
// .env.example placeholder text ("your_..._api_key") count as unset.
func Credential(v string) string {
	v = strings.TrimSpace(v)
	if strings.Contains(strings.ToLower(v), "your_") {
		return ""
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
