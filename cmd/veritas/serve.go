package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stake-plus/veritas/src/api/webserver"
	"github.com/stake-plus/veritas/src/app"
	"github.com/stake-plus/veritas/src/config"
	"github.com/stake-plus/veritas/src/webclient"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, portOverride string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Start(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Config.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	window := time.Minute
	var limiter webserver.Limiter = webserver.NewMemoryLimiter(a.Config.RateLimitPerMin, window)
	if a.Redis != nil {
		limiter = webserver.NewRedisLimiter(a.Redis, a.Config.RateLimitPerMin, window)
	}

	router := webserver.New(webserver.Deps{
		Checker:   a.Checker,
		Allowlist: a.Allowlist,
		Limiter:   limiter,
		Metrics:   a.Metrics,
		Log:       a.Log,

		TrustedProxies: a.Config.TrustedProxies,
	})

	port := a.Config.Port
	if portOverride != "" {
		port = portOverride
	}
	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout(a.Config.AI),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("veritas API listening", zap.String("addr", httpSrv.Addr), zap.String("route", "POST /api/fact-check"))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		return err
	case <-sig:
	case <-ctx.Done():
	}

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	return httpSrv.Shutdown(shutCtx)
}

// writeTimeout covers every model attempt, the sleeps between them and some
// headroom for writing the response.
func writeTimeout(ai config.AI) time.Duration {
	attempts := max(ai.MaxAttempts, 1)
	return ai.Timeout*time.Duration(attempts) + webclient.MaxBackoff(attempts, webclient.DefaultInitialDelay) + 15*time.Second
}
