package recipe

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
)

// Repair parses the raw text returned by the generation call into a Recipe.
// First attempt is a direct JSON parse; the second strips surrounding code
// fences and whitespace. The raw text travels only inside the returned error
// for diagnostics and is never surfaced to end users.
func Repair(raw string) (*Recipe, error) {
	var r Recipe
	if err := json.Unmarshal([]byte(raw), &r); err == nil {
		return &r, nil
	}

	cleaned := StripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, apperrors.NewUnparseableError(fmt.Errorf("generation output is not valid JSON: %w; raw: %s", err, truncateForDiagnostics(raw)))
	}
	return &r, nil
}

// StripCodeFences removes a surrounding ```json ... ``` (or plain ```) block
// along with leading and trailing whitespace.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// The opening fence may carry a language tag.
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimPrefix(s, "JSON")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateForDiagnostics(s string) string {
	const limit = 512
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
