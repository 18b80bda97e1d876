package factcheck

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/veritas/src/ai/core"
)

type fakeClient struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	input string
	tools []core.Tool
	opts  core.Options
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Respond(ctx context.Context, input string, tools []core.Tool, opts core.Options) (*core.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.input = input
	f.tools = tools
	f.opts = opts
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &core.Response{Text: f.text, Citations: []core.Citation{{URL: "https://www.bbc.com/news"}}}, nil
}

type fakeRecorder struct {
	calls       int
	failures    []ErrorKind
	removed     int
	enforced    bool
	parseFailed bool
}

func (r *fakeRecorder) ObserveModelCall(string, time.Duration, error) { r.calls++ }

func (r *fakeRecorder) ObserveResult(_ *Result, removed int, enforced, parseFailed bool) {
	r.removed, r.enforced, r.parseFailed = removed, enforced, parseFailed
}

func (r *fakeRecorder) ObserveFailure(kind ErrorKind) { r.failures = append(r.failures, kind) }

const eiffelResponse = `{
  "verdict": "FALSE",
  "confidenceScore": 95,
  "summary": "There was no fire at the Eiffel Tower.",
  "keyFacts": ["The tower operated normally"],
  "isDeveloping": false,
  "logicExplanation": "BBC Dispute",
  "sources": [
    {"title": "Eiffel Tower fire claims false", "url": "https://www.bbc.com/news/eiffel", "domain": "bbc.com", "sentiment": "DISPUTE"},
    {"title": "Shocking fire!!", "url": "https://example-blog.net/fire", "domain": "example-blog.net", "sentiment": "SUPPORT"}
  ]
}`

func TestVerifyRejectsShortClaimWithoutModelCall(t *testing.T) {
	client := &fakeClient{text: eiffelResponse}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains))

	for _, claim := range []string{"", "  ", "abc", " abcd "} {
		res, err := c.Verify(context.Background(), claim)
		assert.ErrorIs(t, err, ErrInvalidClaim)
		assert.Nil(t, res)
	}
	assert.Zero(t, client.calls)
}

func TestVerifyWithoutClientIsConfigError(t *testing.T) {
	c := NewChecker(nil, MustAllowlist(DefaultTrustedDomains), WithMissingCredential("GEMINI_API_KEY"))
	assert.Empty(t, c.Provider())

	_, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GEMINI_API_KEY not configured", cfgErr.Error())

	// An invalid claim is still reported first.
	_, err = c.Verify(context.Background(), "no")
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestVerifyFiltersUntrustedSources(t *testing.T) {
	client := &fakeClient{text: eiffelResponse}
	rec := &fakeRecorder{}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains), WithRecorder(rec))

	res, err := c.Verify(context.Background(), "  The Eiffel Tower caught fire yesterday  ")
	require.NoError(t, err)

	assert.Equal(t, VerdictFalse, res.Verdict)
	assert.Equal(t, 95, res.ConfidenceScore)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "bbc.com", res.Sources[0].Domain)
	assert.Equal(t, SentimentDispute, res.Sources[0].Sentiment)

	assert.Equal(t, 1, client.calls)
	assert.Contains(t, client.input, `verify this claim: "The Eiffel Tower caught fire yesterday"`)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 1, rec.removed)
	assert.False(t, rec.enforced)
}

func TestVerifyEnforcesWhenNothingTrusted(t *testing.T) {
	client := &fakeClient{text: `{"verdict":"VERIFIED","confidenceScore":90,"summary":"Confirmed.","keyFacts":["a"],"isDeveloping":true,"logicExplanation":"Blog Support","sources":[{"title":"t","url":"https://example-blog.net/x","domain":"example-blog.net","sentiment":"SUPPORT"}]}`}
	rec := &fakeRecorder{}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains), WithRecorder(rec))

	res, err := c.Verify(context.Background(), "Aliens landed in Paris today")
	require.NoError(t, err)

	assert.Equal(t, VerdictUnverified, res.Verdict)
	assert.Equal(t, 0, res.ConfidenceScore)
	assert.Equal(t, untrustedSummary, res.Summary)
	assert.Equal(t, untrustedKeyFacts, res.KeyFacts)
	assert.False(t, res.IsDeveloping)
	assert.Empty(t, res.Sources)
	assert.True(t, rec.enforced)
}

func TestVerifyNoSourcesKeepsVerdict(t *testing.T) {
	client := &fakeClient{text: `{"verdict":"MISLEADING","confidenceScore":40,"summary":"Partly true.","keyFacts":[],"isDeveloping":true,"logicExplanation":"Context","sources":[]}`}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains))

	res, err := c.Verify(context.Background(), "Prices doubled last month")
	require.NoError(t, err)
	assert.Equal(t, VerdictMisleading, res.Verdict)
	assert.Equal(t, 40, res.ConfidenceScore)
	assert.True(t, res.IsDeveloping)
}

func TestVerifyUnparseableResponse(t *testing.T) {
	for _, text := range []string{
		"I'm sorry, I cannot help with that.",
		`{"verdict": "FALSE", "confidenceScore": "very high"}`,
		`{"verdict": "PROBABLY", "confidenceScore": 50}`,
		`{"verdict":"FALSE","confidenceScore":20,"draft":{"verdict":"VERIFIED","confidenceScore":100},,}`,
	} {
		client := &fakeClient{text: text}
		rec := &fakeRecorder{}
		c := NewChecker(client, MustAllowlist(DefaultTrustedDomains), WithRecorder(rec))

		res, err := c.Verify(context.Background(), "The moon is made of cheese")
		require.NoError(t, err)
		assert.Equal(t, ParseFailureResult(), res)
		assert.True(t, rec.parseFailed)
	}
}

func TestVerifyFencedEqualsBare(t *testing.T) {
	al := MustAllowlist(DefaultTrustedDomains)

	bare, err := NewChecker(&fakeClient{text: eiffelResponse}, al).Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	require.NoError(t, err)
	fenced, err := NewChecker(&fakeClient{text: "```json\n" + eiffelResponse + "\n```"}, al).Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	require.NoError(t, err)
	assert.Equal(t, bare, fenced)
}

func TestVerifyModelFailureIsClassified(t *testing.T) {
	client := &fakeClient{err: core.NewStatusError("gemini", http.StatusServiceUnavailable, "UNAVAILABLE", "model overloaded")}
	rec := &fakeRecorder{}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains), WithRecorder(rec))

	res, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	assert.Nil(t, res)

	var ce *ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindServiceOverloaded, ce.Kind)
	assert.Equal(t, []ErrorKind{KindServiceOverloaded}, rec.failures)

	var pe *core.ProviderError
	assert.True(t, errors.As(err, &pe))
}

func TestVerifyCancelledContext(t *testing.T) {
	client := &fakeClient{text: eiffelResponse}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Verify(ctx, "The Eiffel Tower caught fire yesterday")
	assert.ErrorIs(t, err, context.Canceled)
	var ce *ClassifiedError
	assert.ErrorAs(t, err, &ce)
}

func TestVerifyPassesModelOptions(t *testing.T) {
	opts := core.Options{Model: "gemini-2.5-flash", Temperature: core.Ptr(0.3), SystemPrompt: SystemPrompt, EnableWebSearch: true}
	client := &fakeClient{text: eiffelResponse}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains), WithModelOptions(opts))

	_, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	require.NoError(t, err)
	assert.Equal(t, []core.Tool{{Type: core.WebSearch}}, client.tools)
	assert.Equal(t, opts, client.opts)

	client2 := &fakeClient{text: eiffelResponse}
	_, err = NewChecker(client2, MustAllowlist(DefaultTrustedDomains)).Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
	require.NoError(t, err)
	assert.Empty(t, client2.tools)
}

func TestVerifyOutputSourcesAlwaysTrusted(t *testing.T) {
	al := MustAllowlist([]string{"reuters.com", "apnews.com"})
	var b strings.Builder
	b.WriteString(`{"verdict":"VERIFIED","confidenceScore":80,"sources":[`)
	urls := []string{
		"https://www.reuters.com/a", "https://blog.example/b", "https://apnews.com/c",
		"https://fake-news.site/d", "https://www.reuters.com/e",
	}
	for i, u := range urls {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"title":"t","url":"` + u + `","domain":"","sentiment":"SUPPORT"}`)
	}
	b.WriteString(`]}`)

	res, err := NewChecker(&fakeClient{text: b.String()}, al).Verify(context.Background(), "Some claim worth checking")
	require.NoError(t, err)
	require.Len(t, res.Sources, 3)
	for _, s := range res.Sources {
		assert.True(t, al.Trusts(s), s.URL)
	}
	assert.Equal(t, "https://www.reuters.com/a", res.Sources[0].URL)
	assert.Equal(t, "https://apnews.com/c", res.Sources[1].URL)
	assert.Equal(t, "https://www.reuters.com/e", res.Sources[2].URL)
}

func TestVerifyConcurrent(t *testing.T) {
	client := &fakeClient{text: eiffelResponse}
	c := NewChecker(client, MustAllowlist(DefaultTrustedDomains))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.Verify(context.Background(), "The Eiffel Tower caught fire yesterday")
			if assert.NoError(t, err) {
				assert.Len(t, res.Sources, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, client.calls)
}
