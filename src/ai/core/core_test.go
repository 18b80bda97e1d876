package core

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoClient struct{ cfg FactoryConfig }

func (e echoClient) Name() string { return e.cfg.Provider }

func (e echoClient) Respond(context.Context, string, []Tool, Options) (*Response, error) {
	return &Response{Text: e.cfg.Model}, nil
}

func TestRegistry(t *testing.T) {
	RegisterProvider("Echo-Test", func(cfg FactoryConfig) (Client, error) {
		return echoClient{cfg: cfg}, nil
	}, "echo-alias")

	assert.Contains(t, Registered(), "echo-test")
	assert.Contains(t, Registered(), "echo-alias")

	c, err := NewClient(FactoryConfig{Provider: "ECHO-ALIAS", Model: "m1"})
	require.NoError(t, err)
	resp, err := c.Respond(context.Background(), "", nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "m1", resp.Text)

	_, err = NewClient(FactoryConfig{Provider: "nope"})
	assert.ErrorContains(t, err, `provider "nope" not registered`)
}

func TestResolveModelName(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", ResolveModelName("gemini", ""))
	assert.Equal(t, "llama-3.3-70b-versatile", ResolveModelName(" GROQ ", " "))
	assert.Equal(t, "custom", ResolveModelName("groq", " custom "))
	assert.Equal(t, "unknown", ResolveModelName("other", ""))
}

func TestCredentialSetting(t *testing.T) {
	assert.Equal(t, "GEMINI_API_KEY", CredentialSetting(""))
	assert.Equal(t, "GEMINI_API_KEY", CredentialSetting("gemini-rest"))
	assert.Equal(t, "GROQ_API_KEY", CredentialSetting("Groq"))
	assert.Equal(t, "MISTRAL_API_KEY", CredentialSetting("mistral"))
}

func TestAliasesResolveToCanonicalProvider(t *testing.T) {
	RegisterProvider("gemini-test", func(FactoryConfig) (Client, error) { return nil, nil }, "Google-Test")

	assert.Equal(t, "gemini-test", CanonicalProvider(" google-test "))
	assert.Equal(t, "gemini-test", CanonicalProvider("GEMINI-TEST"))
	assert.Equal(t, "gemini", CanonicalProvider(""))
	assert.Equal(t, "mistral", CanonicalProvider("Mistral"))
	assert.Equal(t, "GEMINI-TEST_API_KEY", CredentialSetting("google-test"))
}

func TestMerge(t *testing.T) {
	defaults := Options{Model: "a", Temperature: Ptr(0.3), MaxCompletionTokens: 100, SystemPrompt: "sys"}

	assert.Equal(t, defaults, Merge(defaults, Options{}))
	assert.Equal(t,
		Options{Model: "b", Temperature: Ptr(0.9), MaxCompletionTokens: 100, SystemPrompt: "sys", EnableWebSearch: true},
		Merge(defaults, Options{Model: "b", Temperature: Ptr(0.9), SystemPrompt: "  ", EnableWebSearch: true}),
	)

	zero := Merge(defaults, Options{Temperature: Ptr(0.0)})
	if assert.NotNil(t, zero.Temperature) {
		assert.Equal(t, 0.0, *zero.Temperature)
	}
}

func TestHasWebSearch(t *testing.T) {
	assert.False(t, HasWebSearch(Options{}, nil))
	assert.True(t, HasWebSearch(Options{EnableWebSearch: true}, nil))
	assert.True(t, HasWebSearch(Options{}, []Tool{{Type: "WEB_SEARCH"}}))
	assert.False(t, HasWebSearch(Options{}, []Tool{{Type: "code"}}))
}

func TestConfigHelpers(t *testing.T) {
	assert.Equal(t, 2.0, ClampFloat(5, 0, 2))
	assert.Equal(t, 0.0, ClampFloat(-1, 0, 2))
	assert.Equal(t, 7, OrInt(0, 7))
	assert.Equal(t, 0.5, FloatOr(Ptr(0.5), 1))
	assert.Equal(t, 0.0, FloatOr(Ptr(0.0), 1))
	assert.Equal(t, 1.0, FloatOr(nil, 1))
}

func TestProviderError(t *testing.T) {
	blocked := NewBlockedError("gemini", "SAFETY")
	assert.ErrorIs(t, blocked, ErrContentBlocked)
	assert.Equal(t, "gemini: blocked: SAFETY", blocked.Error())

	status := NewStatusError("groq", http.StatusTooManyRequests, "rate_limit_exceeded", "")
	assert.Equal(t, "groq: status 429 rate_limit_exceeded: Too Many Requests", status.Error())
	assert.NoError(t, status.Unwrap())

	cause := errors.New("dial tcp: timeout")
	transport := &ProviderError{Provider: "gemini", Message: "transport failure", Err: cause}
	assert.ErrorIs(t, transport, cause)
	assert.Equal(t, "gemini: dial tcp: timeout", transport.Error())
}
