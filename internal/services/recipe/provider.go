package recipe

import "context"

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
)

// GenerationProvider defines the interface for the external generation
// capability. Implementations make exactly one call per request; retry is a
// caller concern.
type GenerationProvider interface {
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}
