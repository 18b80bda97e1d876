package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const factCheckPath = "/api/fact-check"

func attachRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Origin", "Content-Type"},
		ExposeHeaders:             []string{"Content-Length", requestIDHeader, errorKindHeader},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	fc := NewFactCheck(d.Checker, d.Log, d.Metrics)

	handlers := []gin.HandlerFunc{}
	if d.Limiter != nil {
		handlers = append(handlers, RateLimitMiddleware(d.Limiter, d.Log))
	}
	handlers = append(handlers, fc.Check)

	r.POST(factCheckPath, handlers...)
	r.OPTIONS(factCheckPath, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/api/trusted-domains", func(c *gin.Context) {
		var domains []string
		if d.Allowlist != nil {
			domains = d.Allowlist.Entries()
		}
		c.JSON(http.StatusOK, gin.H{"domains": domains})
	})

	r.GET("/healthz", func(c *gin.Context) {
		provider := d.Checker.Provider()
		status := "ok"
		if provider == "" {
			status = "unconfigured"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "provider": provider})
	})

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
}
