package groq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/veritas/src/ai/core"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) core.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := newClient(core.FactoryConfig{
		GroqKey:      "gsk-test",
		BaseURL:      srv.URL,
		SystemPrompt: "respond with JSON",
	})
	require.NoError(t, err)
	return c
}

func TestRespondSuccess(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"verdict\":\"FALSE\"}"}, "finish_reason": "stop"}]
		}`)
	})

	resp, err := c.Respond(context.Background(), "verify this", []core.Tool{{Type: core.WebSearch}}, core.Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"FALSE"}`, resp.Text)
	assert.Equal(t, "llama-3.3-70b-versatile", resp.Model)

	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "respond with JSON", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "verify this", got.Messages[1].Content)
}

func TestRespondKeepsZeroTemperature(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &raw))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`)
	}))
	t.Cleanup(srv.Close)
	c, err := newClient(core.FactoryConfig{GroqKey: "gsk-test", BaseURL: srv.URL, Temperature: core.Ptr(0.0)})
	require.NoError(t, err)

	_, err = c.Respond(context.Background(), "hi", nil, core.Options{})
	require.NoError(t, err)
	require.Contains(t, raw, "temperature")
	assert.InDelta(t, 0, raw["temperature"], 1e-9)
}

func TestRespondAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`)
	})
	_, err := c.Respond(context.Background(), "hi", nil, core.Options{})

	var pe *core.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Equal(t, "invalid_api_key", pe.Status)
	assert.Equal(t, "Invalid API Key", pe.Message)
}

func TestRespondContentFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"content_filter"}]}`)
	})
	_, err := c.Respond(context.Background(), "hi", nil, core.Options{})
	assert.ErrorIs(t, err, core.ErrContentBlocked)
}

func TestRespondNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[]}`)
	})
	_, err := c.Respond(context.Background(), "hi", nil, core.Options{})
	assert.ErrorIs(t, err, core.ErrEmptyResponse)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := newClient(core.FactoryConfig{})
	assert.Error(t, err)
}
