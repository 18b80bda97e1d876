package core

import (
	"strings"
)

var providerDefaultModels = map[string]string{
	"gemini":      "gemini-2.5-flash",
	"gemini-rest": "gemini-2.5-flash",
	"groq":        "llama-3.3-70b-versatile",
}

var providerKeySettings = map[string]string{
	"gemini":      "GEMINI_API_KEY",
	"gemini-rest": "GEMINI_API_KEY",
	"groq":        "GROQ_API_KEY",
}

// DefaultModelForProvider returns the baked-in default model for a provider key.
func DefaultModelForProvider(provider string) string {
	if val, ok := providerDefaultModels[CanonicalProvider(provider)]; ok {
		return val
	}
	return ""
}

// ResolveModelName picks the configured model if provided, otherwise the provider's default.
func ResolveModelName(provider, configuredModel string) string {
	model := strings.TrimSpace(configuredModel)
	if model != "" {
		return model
	}
	if def := DefaultModelForProvider(provider); def != "" {
		return def
	}
	return "unknown"
}

// CredentialSetting names the environment variable holding the provider's key.
func CredentialSetting(provider string) string {
	key := CanonicalProvider(provider)
	if val, ok := providerKeySettings[key]; ok {
		return val
	}
	return strings.ToUpper(key) + "_API_KEY"
}

// HasWebSearch reports whether search grounding was requested either through
// opts or through the tool list.
func HasWebSearch(opts Options, tools []Tool) bool {
	if opts.EnableWebSearch {
		return true
	}
	for _, tool := range tools {
		if strings.EqualFold(tool.Type, WebSearch) {
			return true
		}
	}
	return false
}

// Merge overlays the non-zero fields of opts onto defaults.
func Merge(defaults, opts Options) Options {
	out := defaults
	if strings.TrimSpace(opts.Model) != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != nil {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if strings.TrimSpace(opts.SystemPrompt) != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	if opts.EnableWebSearch {
		out.EnableWebSearch = true
	}
	return out
}
