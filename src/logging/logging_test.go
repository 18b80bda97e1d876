package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestClaimFingerprint(t *testing.T) {
	a := ClaimFingerprint("The Eiffel Tower caught fire yesterday")
	assert.Equal(t, a, ClaimFingerprint("  The Eiffel Tower caught fire yesterday "))
	assert.NotEqual(t, a, ClaimFingerprint("The Eiffel Tower caught fire today"))
	assert.NotContains(t, a, "Eiffel")

	f := Claim("The Eiffel Tower caught fire yesterday")
	assert.Equal(t, "claim_fp", f.Key)
	assert.Equal(t, a, f.String)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("chatty"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestNew(t *testing.T) {
	log, err := New("error", false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))

	dev, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestIsRateLimit(t *testing.T) {
	assert.False(t, IsRateLimit(nil))
	assert.True(t, IsRateLimit(errors.New("Error 429: Too Many Requests")))
	assert.True(t, IsRateLimit(errors.New("rate_limit_exceeded")))
	assert.True(t, IsRateLimit(errors.New("RESOURCE_EXHAUSTED: quota")))
	assert.False(t, IsRateLimit(errors.New("status 500")))
}
