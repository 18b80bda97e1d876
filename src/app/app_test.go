package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stake-plus/veritas/src/config"
	"github.com/stake-plus/veritas/src/factcheck"
	"github.com/stake-plus/veritas/src/metrics"
)

func TestNewCheckerWithoutKey(t *testing.T) {
	c := NewChecker(config.AI{Provider: "groq"}, factcheck.MustAllowlist(factcheck.DefaultTrustedDomains), zap.NewNop(), metrics.New())
	assert.Empty(t, c.Provider())

	_, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	var cfgErr *factcheck.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GROQ_API_KEY not configured", cfgErr.Error())
}

func TestNewCheckerAliasReportsCanonicalCredential(t *testing.T) {
	ai := config.AI{Provider: "google"}
	assert.Equal(t, "GEMINI_API_KEY", ai.CredentialSetting())

	c := NewChecker(ai, factcheck.MustAllowlist(factcheck.DefaultTrustedDomains), zap.NewNop(), metrics.New())
	_, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	var cfgErr *factcheck.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GEMINI_API_KEY not configured", cfgErr.Error())
}

func TestNewCheckerUnknownProvider(t *testing.T) {
	c := NewChecker(config.AI{Provider: "nope", GeminiKey: "k"}, factcheck.MustAllowlist(factcheck.DefaultTrustedDomains), zap.NewNop(), metrics.New())

	_, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	var cfgErr *factcheck.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "AI_PROVIDER not configured", cfgErr.Error())
}

func TestNewCheckerEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama-3.3-70b-versatile","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Here you go:\n`+"```json"+`\n{\"verdict\":\"FALSE\",\"confidenceScore\":93,\"summary\":\"No fire.\",\"keyFacts\":[],\"isDeveloping\":false,\"logicExplanation\":\"Reuters Dispute\",\"sources\":[{\"title\":\"r\",\"url\":\"https://www.reuters.com/x\",\"domain\":\"reuters.com\",\"sentiment\":\"DISPUTE\"},{\"title\":\"b\",\"url\":\"https://example-blog.net/y\",\"domain\":\"example-blog.net\",\"sentiment\":\"SUPPORT\"}]}\n`+"```"+`"}}]}`)
	}))
	defer srv.Close()

	ai := config.AI{
		Provider:    "groq",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.3,
		MaxAttempts: 1,
		Timeout:     5 * time.Second,
		GroqKey:     "gsk-test",
		GroqBaseURL: srv.URL,
	}
	m := metrics.New()
	c := NewChecker(ai, factcheck.MustAllowlist(factcheck.DefaultTrustedDomains), zap.NewNop(), m)
	assert.Equal(t, "groq", c.Provider())

	res, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	require.NoError(t, err)
	assert.Equal(t, factcheck.VerdictFalse, res.Verdict)
	assert.Equal(t, 93, res.ConfidenceScore)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "reuters.com", res.Sources[0].Domain)
}
