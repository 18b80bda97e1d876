package config

import (
	"time"

	"github.com/stake-plus/veritas/src/ai/core"
)

// AI holds model vendor configuration.
type AI struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	EnableWeb   bool
	MaxAttempts int
	Timeout     time.Duration

	GeminiKey     string
	GeminiBaseURL string
	GroqKey       string
	GroqBaseURL   string
}

// LoadAI merges DB settings over the environment.
func LoadAI() AI {
	provider := core.CanonicalProvider(GetSetting("ai_provider", "AI_PROVIDER", "gemini"))

	geminiKey := GetSetting("gemini_api_key", "GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = GetSetting("", "API_KEY", "")
	}

	return AI{
		Provider:      provider,
		Model:         core.ResolveModelName(provider, GetSetting("ai_model", "AI_MODEL", "")),
		Temperature:   getFloatSetting("ai_temperature", "AI_TEMPERATURE", 0.3),
		MaxTokens:     getIntSetting("ai_max_tokens", "AI_MAX_TOKENS", 0),
		EnableWeb:     getBoolSetting("ai_enable_web_search", "AI_ENABLE_WEB_SEARCH", true),
		MaxAttempts:   getIntSetting("ai_max_attempts", "AI_MAX_ATTEMPTS", 1),
		Timeout:       time.Duration(getIntSetting("ai_timeout_seconds", "AI_TIMEOUT_SECONDS", 120)) * time.Second,
		GeminiKey:     geminiKey,
		GeminiBaseURL: GetSetting("gemini_base_url", "GEMINI_BASE_URL", ""),
		GroqKey:       GetSetting("groq_api_key", "GROQ_API_KEY", ""),
		GroqBaseURL:   GetSetting("groq_base_url", "GROQ_BASE_URL", ""),
	}
}

// APIKey returns the credential for the selected provider.
func (a AI) APIKey() string {
	switch core.CanonicalProvider(a.Provider) {
	case "groq":
		return a.GroqKey
	default:
		return a.GeminiKey
	}
}

// CredentialSetting names the setting an operator must fill in for the
// selected provider.
func (a AI) CredentialSetting() string {
	return core.CredentialSetting(a.Provider)
}

// FactoryConfig converts a into the provider registry's input.
func (a AI) FactoryConfig(systemPrompt string) core.FactoryConfig {
	baseURL := a.GeminiBaseURL
	if core.CanonicalProvider(a.Provider) == "groq" {
		baseURL = a.GroqBaseURL
	}
	return core.FactoryConfig{
		Provider:            a.Provider,
		SystemPrompt:        systemPrompt,
		Model:               a.Model,
		Temperature:         core.Ptr(a.Temperature),
		MaxCompletionTokens: a.MaxTokens,
		EnableWebSearch:     a.EnableWeb,
		GeminiKey:           a.GeminiKey,
		GroqKey:             a.GroqKey,
		BaseURL:             baseURL,
		Timeout:             a.Timeout,
		MaxAttempts:         a.MaxAttempts,
	}
}

// ModelOptions are the per-call options handed to the checker.
func (a AI) ModelOptions(systemPrompt string) core.Options {
	return core.Options{
		Model:               a.Model,
		Temperature:         core.Ptr(a.Temperature),
		MaxCompletionTokens: a.MaxTokens,
		SystemPrompt:        systemPrompt,
		EnableWebSearch:     a.EnableWeb,
	}
}
