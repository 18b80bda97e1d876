package geminirest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stake-plus/veritas/src/ai/core"
	"github.com/stake-plus/veritas/src/webclient"
)

const (
	providerName     = "gemini-rest"
	defaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultModelName = "gemini-2.5-flash"
	defaultMaxTokens = 2048

	defaultTemperature = 0.2
)

func init() {
	core.RegisterProvider(providerName, newClient)
}

type client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	defaults    core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &client{
		apiKey:      cfg.GeminiKey,
		baseURL:     baseURL,
		httpClient:  webclient.NewDefault(timeout),
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
	body := c.buildRequestBody(merged, input, core.HasWebSearch(merged, tools))
	resp, err := c.send(ctx, merged.Model, body)
	if err != nil {
		return nil, err
	}
	resp.Model = merged.Model
	return resp, nil
}

func (c *client) buildRequestBody(opts core.Options, userText string, enableSearch bool) generateContentRequest {
	req := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: userText}}}},
		GenerationConfig: generationConfig{
			Temperature:     core.FloatOr(opts.Temperature, defaultTemperature),
			MaxOutputTokens: maxTokens(opts.MaxCompletionTokens),
		},
	}

	if strings.TrimSpace(opts.SystemPrompt) != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: opts.SystemPrompt}}}
	}

	// Structured output (responseMimeType) is rejected alongside tools, so the
	// JSON shape is left to the prompt.
	if enableSearch {
		req.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	return req
}

func (c *client) send(ctx context.Context, model string, payload generateContentRequest) (*core.Response, error) {
	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, normalizeModel(model))
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	status, body, err := webclient.DoWithRetry(ctx, c.maxAttempts, webclient.DefaultInitialDelay, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		if status != 0 && status != http.StatusOK {
			return nil, statusError(status, body)
		}
		return nil, &core.ProviderError{Provider: providerName, Message: "transport failure", Err: err}
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if reason := result.blockReason(); reason != "" {
		return nil, core.NewBlockedError(providerName, reason)
	}
	text := result.FirstText()
	if text == "" {
		return nil, &core.ProviderError{Provider: providerName, Message: "no text in response", Err: core.ErrEmptyResponse}
	}
	return &core.Response{Text: text, Citations: result.citations()}, nil
}

func statusError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return core.NewStatusError(providerName, status, "", "")
	}
	return core.NewStatusError(providerName, status, envelope.Error.Status, envelope.Error.Message)
}

func maxTokens(requested int) int {
	if requested <= 0 {
		return defaultMaxTokens
	}
	return requested
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "models/" + defaultModelName
	}
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

type generateContentRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	Tools             []tool           `json:"tools,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason      string `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

var safetyFinishReasons = map[string]bool{
	"SAFETY":             true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

// blockReason returns the vendor's reason when the prompt or every candidate
// was stopped by safety filtering.
func (r generateContentResponse) blockReason() string {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + r.PromptFeedback.BlockReason
	}
	if len(r.Candidates) == 0 {
		return ""
	}
	for _, c := range r.Candidates {
		if !safetyFinishReasons[c.FinishReason] {
			return ""
		}
	}
	return "response blocked: " + r.Candidates[0].FinishReason
}

// FirstText returns the concatenated text parts of the first candidate with text.
func (r generateContentResponse) FirstText() string {
	for _, candidate := range r.Candidates {
		var sb strings.Builder
		for _, p := range candidate.Content.Parts {
			sb.WriteString(p.Text)
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

func (r generateContentResponse) citations() []core.Citation {
	var out []core.Citation
	for _, candidate := range r.Candidates {
		if candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				out = append(out, core.Citation{Title: chunk.Web.Title, URL: chunk.Web.URI})
			}
		}
	}
	return out
}
