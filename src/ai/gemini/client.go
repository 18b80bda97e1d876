// Package gemini calls Gemini through the official Google GenAI SDK with
// Google Search grounding.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/stake-plus/veritas/src/ai/core"
	"github.com/stake-plus/veritas/src/webclient"
)

const (
	providerName       = "gemini"
	defaultMaxTokens   = 2048
	defaultTemperature = 0.2
)

func init() {
	core.RegisterProvider(providerName, newClient, "google")
}

type client struct {
	sdk         *genai.Client
	maxAttempts int
	defaults    core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.GeminiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: webclient.NewDefault(timeout),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	sdk, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &client{
		sdk:         sdk,
		maxAttempts: cfg.MaxAttempts,
		defaults: core.Options{
			Model:               core.ResolveModelName(providerName, cfg.Model),
			Temperature:         core.Ptr(core.ClampFloat(core.FloatOr(cfg.Temperature, defaultTemperature), 0, 2)),
			MaxCompletionTokens: core.OrInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			SystemPrompt:        cfg.SystemPrompt,
			EnableWebSearch:     cfg.EnableWebSearch,
		},
	}, nil
}

func (c *client) Name() string { return providerName }

func (c *client) Respond(ctx context.Context, input string, tools []core.Tool, opts core.Options) (*core.Response, error) {
	merged := core.Merge(c.defaults, opts)

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(core.FloatOr(merged.Temperature, defaultTemperature))),
		MaxOutputTokens: int32(merged.MaxCompletionTokens),
	}
	if strings.TrimSpace(merged.SystemPrompt) != "" {
		gc.SystemInstruction = genai.NewContentFromText(merged.SystemPrompt, genai.RoleUser)
	}
	// ResponseMIMEType cannot be combined with the search tool.
	if core.HasWebSearch(merged, tools) {
		gc.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	var resp *genai.GenerateContentResponse
	_, _, err := webclient.DoWithRetry(ctx, c.maxAttempts, webclient.DefaultInitialDelay, func() (int, []byte, error) {
		r, err := c.sdk.Models.GenerateContent(ctx, merged.Model, genai.Text(input), gc)
		if err != nil {
			return apiStatus(err), nil, err
		}
		resp = r
		return 200, nil, nil
	})
	if err != nil {
		return nil, providerError(err)
	}

	if reason := blockReason(resp); reason != "" {
		return nil, core.NewBlockedError(providerName, reason)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, &core.ProviderError{Provider: providerName, Message: "no text in response", Err: core.ErrEmptyResponse}
	}
	return &core.Response{Text: text, Citations: citations(resp), Model: merged.Model}, nil
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func apiStatus(err error) int {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Code
	}
	return 0
}

func providerError(err error) error {
	if apiErr, ok := asAPIError(err); ok {
		return &core.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &core.ProviderError{Provider: providerName, Message: "transport failure", Err: err}
}

var safetyFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonProhibitedContent: true,
	genai.FinishReasonSPII:              true,
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" && pf.BlockReason != genai.BlockedReasonUnspecified {
		return "prompt blocked: " + string(pf.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || !safetyFinishReasons[cand.FinishReason] {
			return ""
		}
	}
	return "response blocked: " + string(resp.Candidates[0].FinishReason)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

func citations(resp *genai.GenerateContentResponse) []core.Citation {
	var out []core.Citation
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			out = append(out, core.Citation{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}
	return out
}
