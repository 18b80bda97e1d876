package logging

import (
	"strconv"
	"strings"

	"github.com/OneOfOne/xxhash"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. level is one of debug, info, warn, error;
// anything else falls back to info. development switches to the console
// encoder with caller and stack traces on warnings.
func New(level string, development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// ClaimFingerprint identifies a claim in logs without writing its text.
func ClaimFingerprint(claim string) string {
	return strconv.FormatUint(xxhash.ChecksumString64(strings.TrimSpace(claim)), 16)
}

// Claim is the zap field form of ClaimFingerprint.
func Claim(claim string) zap.Field {
	return zap.String("claim_fp", ClaimFingerprint(claim))
}
