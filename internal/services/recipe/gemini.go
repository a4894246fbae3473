package recipe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/config"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/metrics"
)

// GeminiProvider implements GenerationProvider for the Gemini API.
type GeminiProvider struct {
	client            *genai.Client
	model             string
	timeout           time.Duration
	temperature       float32
	schemaConstrained bool
}

// NewGeminiProvider creates a Gemini provider from the pipeline configuration.
// The API key must be non-empty; a missing key is classified earlier so no
// call is ever attempted without one.
func NewGeminiProvider(ctx context.Context, apiKey string, cfg config.PipelineConfig) (*GeminiProvider, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{
		client:            gc,
		model:             cfg.Model,
		timeout:           time.Duration(cfg.GenerationTimeoutSeconds) * time.Second,
		temperature:       float32(cfg.Temperature),
		schemaConstrained: cfg.SchemaConstrained,
	}, nil
}

// Generate makes exactly one GenerateContent call with a bounded wall-clock
// budget and returns the raw generated text. Failures are returned unwrapped
// so the classifier can pattern-match the provider wording.
func (p *GeminiProvider) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{attribute.String("provider", "gemini")}
		metrics.AIGenerationDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	contents := []*genai.Content{{
		Role:  "user",
		Parts: convertParts(req.Parts),
	}}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	}
	if req.SystemPolicy != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPolicy}},
		}
	}
	if p.schemaConstrained && req.Schema != nil {
		genCfg.ResponseMIMEType = "application/json"
		genCfg.ResponseSchema = convertSchema(req.Schema)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, genCfg)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return text, nil
}

func convertParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		switch {
		case part.Inline != nil:
			out = append(out, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: part.Inline.MimeType,
					Data:     part.Inline.Bytes,
				},
			})
		case part.ImageURL != "":
			out = append(out, &genai.Part{
				FileData: &genai.FileData{
					FileURI:  part.ImageURL,
					MIMEType: "image/jpeg",
				},
			})
		default:
			out = append(out, &genai.Part{Text: part.Text})
		}
	}
	return out
}

func convertSchema(schema *OutputSchema) *genai.Schema {
	properties := make(map[string]*genai.Schema, len(schema.Fields))
	var required []string
	for _, field := range schema.Fields {
		switch field.Type {
		case "array":
			properties[field.Name] = &genai.Schema{
				Type:        genai.TypeArray,
				Description: field.Description,
				Items:       &genai.Schema{Type: genai.TypeString},
			}
		default:
			properties[field.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: field.Description,
			}
		}
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}
