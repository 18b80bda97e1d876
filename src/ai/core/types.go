package core

import "context"

// Tool represents a tool capability (e.g., web_search) for providers that support it.
type Tool struct {
	Type string
}

// WebSearch is the tool type that turns on search grounding.
const WebSearch = "web_search"

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         *float64 // nil means unset; an explicit 0 is honoured
	MaxCompletionTokens int
	SystemPrompt        string
	EnableWebSearch     bool
}

// Response is the raw model text plus any grounding citations the vendor
// attached to it.
type Response struct {
	Text      string
	Citations []Citation
	Model     string
}

// Citation is a web page the vendor reports having consulted.
type Citation struct {
	Title string
	URL   string
}

// Client is a provider-agnostic interface for the single model call a claim
// check needs.
type Client interface {
	// Name returns the registry key the client was built under.
	Name() string
	// Respond sends input and returns the model's free-form text.
	Respond(ctx context.Context, input string, tools []Tool, opts Options) (*Response, error)
}
