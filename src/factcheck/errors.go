package factcheck

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/stake-plus/veritas/src/ai/core"
	"github.com/stake-plus/veritas/src/logging"
)

// MinClaimLength is the minimum trimmed length of a claim, in characters.
const MinClaimLength = 5

// ErrInvalidClaim is returned for absent or too-short claims. The model is
// never called for them.
var ErrInvalidClaim = errors.New("factcheck: invalid claim")

// ValidateClaim trims claim and checks its length.
func ValidateClaim(claim string) (string, error) {
	trimmed := strings.TrimSpace(claim)
	if utf8.RuneCountInString(trimmed) < MinClaimLength {
		return "", ErrInvalidClaim
	}
	return trimmed, nil
}

// ConfigError reports a missing operator setting such as a vendor API key.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return e.Setting + " not configured"
}

// ErrorKind is the user-facing classification of a failed model call.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindInvalidCredentials
	KindServiceOverloaded
	KindContentBlocked
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindServiceOverloaded:
		return "ServiceOverloaded"
	case KindContentBlocked:
		return "ContentBlocked"
	default:
		return "Generic"
	}
}

// Message is the fixed text shown to end users for k.
func (k ErrorKind) Message() string {
	switch k {
	case KindInvalidCredentials:
		return "Invalid API key or service not enabled. Please check your model provider credentials."
	case KindServiceOverloaded:
		return "The service is currently overloaded. Please try again in a moment."
	case KindContentBlocked:
		return "The claim could not be processed due to safety guidelines."
	default:
		return "An unexpected error occurred during verification."
	}
}

// ClassifiedError wraps a vendor failure with its kind. Error returns only
// the fixed user message; the vendor text stays reachable through Unwrap.
type ClassifiedError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassifiedError) Error() string { return e.Kind.Message() }

func (e *ClassifiedError) Unwrap() error { return e.Err }

var (
	credentialMarkers = []string{"api key", "403", "not found"}
	overloadMarkers   = []string{"503", "overloaded"}
	blockedMarkers    = []string{"safety", "blocked"}
)

// Classify maps a model-call failure onto an ErrorKind. Structured vendor
// signals are consulted first; the error text is the fallback.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindGeneric
	}
	if errors.Is(err, core.ErrContentBlocked) {
		return KindContentBlocked
	}

	var pe *core.ProviderError
	if errors.As(err, &pe) {
		if kind, ok := classifyProvider(pe); ok {
			return kind
		}
	}
	return classifyText(err)
}

func classifyProvider(pe *core.ProviderError) (ErrorKind, bool) {
	if pe.Blocked {
		return KindContentBlocked, true
	}
	switch pe.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return KindInvalidCredentials, true
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return KindServiceOverloaded, true
	}
	switch strings.ToUpper(pe.Status) {
	case "UNAUTHENTICATED", "PERMISSION_DENIED", "INVALID_API_KEY":
		return KindInvalidCredentials, true
	case "UNAVAILABLE", "RESOURCE_EXHAUSTED":
		return KindServiceOverloaded, true
	}
	return KindGeneric, false
}

// Credential markers take precedence over rate-limit and overload markers.
func classifyText(err error) ErrorKind {
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, credentialMarkers):
		return KindInvalidCredentials
	case logging.IsRateLimit(err), containsAny(msg, overloadMarkers):
		return KindServiceOverloaded
	case containsAny(msg, blockedMarkers):
		return KindContentBlocked
	default:
		return KindGeneric
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
