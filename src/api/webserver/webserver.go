package webserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/veritas/src/factcheck"
	"github.com/stake-plus/veritas/src/metrics"
)

// Verifier is the claim pipeline as seen by the HTTP layer.
type Verifier interface {
	Verify(ctx context.Context, claim string) (*factcheck.Result, error)
	Provider() string
}

// Deps are the collaborators of the router. Limiter and Metrics are optional.
// TrustedProxies lists the proxy addresses or CIDRs whose X-Forwarded-For is
// honoured when keying the rate limiter; empty means the peer address is used.
type Deps struct {
	Checker        Verifier
	Allowlist      *factcheck.Allowlist
	Limiter        Limiter
	Metrics        *metrics.Metrics
	Log            *zap.Logger
	TrustedProxies []string
}

func New(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	g := gin.New()
	g.HandleMethodNotAllowed = true
	if err := g.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Log.Warn("invalid trusted proxies, using peer address only", zap.Strings("proxies", d.TrustedProxies), zap.Error(err))
		_ = g.SetTrustedProxies(nil)
	}
	g.Use(requestID(), accessLog(d.Log), recovery(d.Log))
	attachRoutes(g, d)
	return g
}
