// Package groq talks to Groq's OpenAI-compatible chat completions endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stake-plus/veritas/src/ai/core"
	"github.com/stake-plus/veritas/src/webclient"
)

const (
	providerName     = "groq"
	defaultBaseURL   = "https://api.groq.com/openai/v1"
	defaultMaxTokens = 1024

	defaultTemperature = 0.3
)

func init() {
	core.RegisterProvider(providerName, newClient)
}

type client struct {
	api         *openai.Client
	maxAttempts int
	defaults    core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GroqKey == "" {
		return nil, fmt.Errorf("groq: API key not configured")
	}

	oc := openai.DefaultConfig(cfg.GroqKey)
	oc.BaseURL = defaultBaseURL
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		oc.BaseURL = base
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	oc.HTTPClient = webclient.NewDefault(timeout)

	return &client{
		api:         openai.NewClientWithConfig(oc),
		maxAttempts: cfg.MaxAttempts,
		defaults: core.Options{
			Model:               core.ResolveModelName(providerName, cfg.Model),
			Temperature:         core.Ptr(core.ClampFloat(core.FloatOr(cfg.Temperature, defaultTemperature), 0, 2)),
			MaxCompletionTokens: core.OrInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Name() string { return providerName }

// Respond ignores the web_search tool: Groq's chat endpoint has no retrieval,
// so answers rest on model knowledge and the allow-list filter.
func (c *client) Respond(ctx context.Context, input string, _ []core.Tool, opts core.Options) (*core.Response, error) {
	merged := core.Merge(c.defaults, opts)

	var messages []openai.ChatCompletionMessage
	if strings.TrimSpace(merged.SystemPrompt) != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: merged.SystemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: input})

	req := openai.ChatCompletionRequest{
		Model:       merged.Model,
		Messages:    messages,
		Temperature: wireTemperature(core.FloatOr(merged.Temperature, defaultTemperature)),
		MaxTokens:   merged.MaxCompletionTokens,
	}

	var resp openai.ChatCompletionResponse
	_, _, err := webclient.DoWithRetry(ctx, c.maxAttempts, webclient.DefaultInitialDelay, func() (int, []byte, error) {
		r, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return statusOf(err), nil, err
		}
		resp = r
		return 200, nil, nil
	})
	if err != nil {
		return nil, providerError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &core.ProviderError{Provider: providerName, Message: "no choices returned", Err: core.ErrEmptyResponse}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return nil, core.NewBlockedError(providerName, "response blocked: content_filter")
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, &core.ProviderError{Provider: providerName, Message: "empty message content", Err: core.ErrEmptyResponse}
	}
	return &core.Response{Text: choice.Message.Content, Model: resp.Model}, nil
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.Type
		if s, ok := apiErr.Code.(string); ok && s != "" {
			code = s
		}
		return &core.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.HTTPStatusCode,
			Status:     code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &core.ProviderError{
			Provider:   providerName,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    "request failed",
			Err:        err,
		}
	}
	return &core.ProviderError{Provider: providerName, Message: "transport failure", Err: err}
}

// wireTemperature keeps an explicit 0 on the wire. The SDK tags the field
// omitempty and the endpoint treats a missing temperature as 1.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
