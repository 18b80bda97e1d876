package factcheck

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stake-plus/veritas/src/ai/core"
	"github.com/stake-plus/veritas/src/logging"
)

// Recorder receives pipeline outcomes, typically for metrics.
type Recorder interface {
	ObserveModelCall(provider string, elapsed time.Duration, err error)
	ObserveResult(res *Result, removed int, enforced, parseFailed bool)
	ObserveFailure(kind ErrorKind)
}

type nopRecorder struct{}

func (nopRecorder) ObserveModelCall(string, time.Duration, error) {}
func (nopRecorder) ObserveResult(*Result, int, bool, bool)         {}
func (nopRecorder) ObserveFailure(ErrorKind)                       {}

// Checker runs the claim verification pipeline: prompt, model call,
// extraction, parsing, allow-list filtering and verdict enforcement.
// A Checker holds no per-request state and is safe for concurrent use.
type Checker struct {
	client    core.Client
	allowlist *Allowlist
	opts      core.Options
	missing   string
	log       *zap.Logger
	rec       Recorder
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Checker) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithModelOptions sets per-call model options such as search grounding.
func WithModelOptions(opts core.Options) Option {
	return func(c *Checker) { c.opts = opts }
}

// WithMissingCredential names the setting whose absence left client nil.
func WithMissingCredential(setting string) Option {
	return func(c *Checker) { c.missing = setting }
}

// NewChecker builds a Checker. client may be nil when the vendor is not
// configured; Verify then fails with a *ConfigError.
func NewChecker(client core.Client, al *Allowlist, opts ...Option) *Checker {
	c := &Checker{
		client:    client,
		allowlist: al,
		log:       zap.NewNop(),
		rec:       nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Allowlist returns the trusted domain set the checker filters against.
func (c *Checker) Allowlist() *Allowlist { return c.allowlist }

// Provider returns the name of the configured model provider, or "" if none.
func (c *Checker) Provider() string {
	if c.client == nil {
		return ""
	}
	return c.client.Name()
}

// Verify checks claim and returns a fully built Result.
//
// Errors are ErrInvalidClaim, *ConfigError or *ClassifiedError. Unparseable
// model output and untrusted sources are not errors: they produce the parse
// failure payload and the enforced UNVERIFIED result respectively.
func (c *Checker) Verify(ctx context.Context, claim string) (*Result, error) {
	claim, err := ValidateClaim(claim)
	if err != nil {
		return nil, err
	}
	if c.client == nil {
		setting := c.missing
		if setting == "" {
			setting = "model provider"
		}
		return nil, &ConfigError{Setting: setting}
	}

	log := c.log.With(logging.Claim(claim), zap.String("provider", c.client.Name()))

	var tools []core.Tool
	if c.opts.EnableWebSearch {
		tools = append(tools, core.Tool{Type: core.WebSearch})
	}

	start := time.Now()
	resp, err := c.client.Respond(ctx, BuildPrompt(claim, c.allowlist), tools, c.opts)
	elapsed := time.Since(start)
	c.rec.ObserveModelCall(c.client.Name(), elapsed, err)
	if err != nil {
		kind := Classify(err)
		if errors.Is(err, context.Canceled) {
			log.Info("model call cancelled", zap.Duration("elapsed", elapsed))
		} else {
			log.Warn("model call failed", zap.Stringer("kind", kind), zap.Error(err), zap.Duration("elapsed", elapsed))
		}
		c.rec.ObserveFailure(kind)
		return nil, &ClassifiedError{Kind: kind, Err: err}
	}

	res, err := ParseResult(resp.Text)
	if err != nil {
		log.Warn("model response unparseable", zap.Error(err), zap.Int("response_len", len(resp.Text)))
		res = ParseFailureResult()
		c.rec.ObserveResult(res, 0, false, true)
		return res, nil
	}

	kept, before := c.allowlist.Filter(res.Sources)
	res.Sources = kept
	enforced := Enforce(res, before)
	if enforced {
		log.Warn("untrusted sources removed, verdict forced to UNVERIFIED", zap.Int("sources_removed", before))
	}
	c.rec.ObserveResult(res, before-len(kept), enforced, false)

	log.Info("claim verified",
		zap.String("verdict", string(res.Verdict)),
		zap.Int("confidence", res.ConfidenceScore),
		zap.Int("sources_before", before),
		zap.Int("sources_after", len(res.Sources)),
		zap.Int("citations", len(resp.Citations)),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}
