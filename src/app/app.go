// Package app wires configuration, storage, the model client and the claim
// checker into one process.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stake-plus/veritas/src/ai/core"
	_ "github.com/stake-plus/veritas/src/ai/providers"
	"github.com/stake-plus/veritas/src/config"
	"github.com/stake-plus/veritas/src/data"
	"github.com/stake-plus/veritas/src/factcheck"
	"github.com/stake-plus/veritas/src/logging"
	"github.com/stake-plus/veritas/src/metrics"
)

type App struct {
	Config    config.Config
	Log       *zap.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	Allowlist *factcheck.Allowlist
	Metrics   *metrics.Metrics
	Checker   *factcheck.Checker
}

// Start loads .env, connects the optional database, reads configuration
// and builds the checker. A missing vendor key is not fatal: the checker
// reports it per request.
func Start(ctx context.Context) (*App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("dotenv: %w", err)
	}

	boot := config.Load()
	log, err := logging.New(boot.LogLevel, boot.LogDevelopment)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	a := &App{Log: log}
	if dsn, ok := data.GetMySQLDSN(); ok {
		a.DB, err = data.ConnectMySQL(dsn, log)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		if err := data.LoadSettings(a.DB); err != nil {
			log.Warn("settings table unreadable, using environment", zap.Error(err))
		}
	}

	a.Config = config.Load()
	if a.Config.RedisURL != "" {
		a.Redis, err = data.ConnectRedis(ctx, a.Config.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-process rate limiting", zap.Error(err))
		}
	}

	var source config.DomainSource
	a.Allowlist, source, err = config.LoadAllowlist(a.DB, a.Config.TrustedDomainsFile)
	if err != nil {
		return nil, fmt.Errorf("trusted domains: %w", err)
	}
	log.Info("trusted domains loaded", zap.String("source", string(source)), zap.Int("count", a.Allowlist.Len()))

	a.Metrics = metrics.New()
	a.Checker = NewChecker(a.Config.AI, a.Allowlist, log, a.Metrics)
	return a, nil
}

// NewChecker builds a checker for ai. When the provider's key is missing or
// the client cannot be built the checker is returned without a client.
func NewChecker(ai config.AI, al *factcheck.Allowlist, log *zap.Logger, rec factcheck.Recorder) *factcheck.Checker {
	opts := []factcheck.Option{
		factcheck.WithLogger(log),
		factcheck.WithRecorder(rec),
		factcheck.WithModelOptions(ai.ModelOptions(factcheck.SystemPrompt)),
		factcheck.WithMissingCredential(ai.CredentialSetting()),
	}
	if ai.APIKey() == "" {
		log.Warn("model provider not configured", zap.String("provider", ai.Provider), zap.String("setting", ai.CredentialSetting()))
		return factcheck.NewChecker(nil, al, opts...)
	}

	client, err := core.NewClient(ai.FactoryConfig(factcheck.SystemPrompt))
	if err != nil {
		log.Error("model client init failed", zap.String("provider", ai.Provider), zap.Error(err))
		opts = append(opts, factcheck.WithMissingCredential("AI_PROVIDER"))
		return factcheck.NewChecker(nil, al, opts...)
	}
	log.Info("model provider ready",
		zap.String("provider", client.Name()),
		zap.String("model", ai.Model),
		zap.Bool("web_search", ai.EnableWeb),
		zap.Int("max_attempts", ai.MaxAttempts),
	)
	return factcheck.NewChecker(client, al, opts...)
}

// Close releases connections; safe to call on a partially started App.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
}
