package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// FactoryConfig captures the inputs required to construct a provider client.
type FactoryConfig struct {
	Provider string

	SystemPrompt        string
	Model               string
	Temperature         *float64
	MaxCompletionTokens int
	EnableWebSearch     bool

	GeminiKey string
	GroqKey   string

	// BaseURL overrides the vendor endpoint; empty means the vendor default.
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

// ProviderFactory implements provider-specific Client creation.
type ProviderFactory func(FactoryConfig) (Client, error)

var (
	mu         sync.RWMutex
	providers  = map[string]ProviderFactory{}
	canonical  = map[string]string{}
	defaultKey = "gemini"
)

// RegisterProvider registers a provider factory under one or more names.
func RegisterProvider(name string, factory ProviderFactory, aliases ...string) {
	mu.Lock()
	defer mu.Unlock()

	primary := strings.ToLower(name)
	all := append([]string{name}, aliases...)
	for _, n := range all {
		providers[strings.ToLower(n)] = factory
		canonical[strings.ToLower(n)] = primary
	}
}

// CanonicalProvider maps a provider name or alias to the name its factory
// was registered under. Empty selects the default provider; unknown names
// are returned lower-cased.
func CanonicalProvider(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return defaultKey
	}
	mu.RLock()
	defer mu.RUnlock()
	if primary, ok := canonical[key]; ok {
		return primary
	}
	return key
}

// Registered lists the registered provider names in sorted order.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(providers))
	for name := range providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NewClient returns a provider-agnostic AI client.
func NewClient(cfg FactoryConfig) (Client, error) {
	providerName := cfg.Provider
	if strings.TrimSpace(providerName) == "" {
		providerName = defaultKey
	}

	mu.RLock()
	factory := providers[strings.ToLower(providerName)]
	mu.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("ai: provider %q not registered", providerName)
	}
	return factory(cfg)
}
