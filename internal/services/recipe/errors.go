package recipe

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
)

// defaultRetryAfterSeconds is used when the provider signals quota exhaustion
// without a parseable retry hint.
const defaultRetryAfterSeconds = 60

// retryAfterPattern matches the "retry in <number>s" fragment Gemini embeds in
// quota error messages.
var retryAfterPattern = regexp.MustCompile(`(?i)retry in\s+(\d+(?:\.\d+)?)\s*s`)

var quotaKeywords = []string{
	"429",
	"quota",
	"resource_exhausted",
	"resource exhausted",
	"rate limit",
	"too many requests",
}

var credentialKeywords = []string{
	"api key not valid",
	"api_key_invalid",
	"invalid api key",
	"api key expired",
	"expired api key",
	"api key leaked",
	"permission_denied",
	"permission denied",
	"referer",
	"unauthenticated",
}

var timeoutKeywords = []string{
	"deadline exceeded",
	"timeout",
	"timed out",
	"sandbox was killed",
}

// ClassifyProviderError translates a generation-call failure into the fixed
// application taxonomy. This is a best-effort shim: it pattern-matches the
// upstream wording, which the provider may change at any time, so any
// structured status the SDK surfaces in the message is preferred by listing
// its canonical tokens first.
func ClassifyProviderError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()

	if containsAny(msg, quotaKeywords) {
		return apperrors.NewQuotaExceededError(ExtractRetryAfter(msg), err)
	}
	if containsAny(msg, credentialKeywords) {
		return apperrors.NewInvalidCredentialError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || containsAny(msg, timeoutKeywords) {
		return apperrors.NewRequestTimeoutError(err)
	}

	return apperrors.NewUpstreamError(msg, err)
}

// ExtractRetryAfter pulls the retry-after duration in whole seconds out of a
// provider quota message, rounding up fractional values. Falls back to the
// default when no fragment is found.
func ExtractRetryAfter(msg string) int {
	m := retryAfterPattern.FindStringSubmatch(msg)
	if len(m) < 2 {
		return defaultRetryAfterSeconds
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil || seconds <= 0 {
		return defaultRetryAfterSeconds
	}
	return int(math.Ceil(seconds))
}

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
