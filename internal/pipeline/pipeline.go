package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/config"
	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/imaging"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/ingest"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/metrics"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/ai"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/recipe"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/validation"
)

// Uploader is the blob-storage boundary used only as the alternative
// image-transport path for images too large to inline.
type Uploader interface {
	UploadImage(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
}

// Pipeline runs one request to completion: ingest, normalize, compose,
// generate once, repair, validate. Any stage failure short-circuits to a
// classified error. A Pipeline is immutable after construction and safe for
// concurrent use.
type Pipeline struct {
	cfg        *config.Config
	provider   recipe.GenerationProvider
	composer   *ai.Composer
	normalizer *imaging.Normalizer
	uploader   Uploader
}

// New creates a Pipeline. provider may be nil when no credential is
// configured; every run then fails with MissingCredential before any call is
// attempted. uploader may be nil to disable the reference-transport fallback.
func New(cfg *config.Config, provider recipe.GenerationProvider, uploader Uploader) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		provider:   provider,
		composer:   ai.NewComposer(cfg.Pipeline.SchemaConstrained),
		normalizer: imaging.NewNormalizer(cfg.Pipeline.ImageEdgeBound, cfg.Pipeline.JPEGQuality),
		uploader:   uploader,
	}
}

// Run executes the full pipeline for one request. The result is either a
// fully valid Recipe or a classified error; nothing partial is ever returned.
func (p *Pipeline) Run(ctx context.Context, req *ingest.IncomingRequest) (*recipe.Recipe, error) {
	requestID := uuid.New().String()
	startTime := time.Now()

	result, err := p.run(ctx, requestID, req)

	duration := time.Since(startTime).Seconds()
	metrics.PipelineDuration.Record(ctx, duration)
	metrics.RecipeGenerationsTotal.Add(ctx, 1)
	if err != nil {
		appErr := Classify(err)
		metrics.PipelineErrorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", string(appErr.Type)),
		))
		slog.Error("pipeline run failed",
			"request_id", requestID,
			"error_type", appErr.Type,
			"error", appErr.Error(),
			"duration_s", duration)
		return nil, appErr
	}

	slog.Info("pipeline run completed",
		"request_id", requestID,
		"recipe_name", result.RecipeName,
		"duration_s", duration)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, requestID string, req *ingest.IncomingRequest) (*recipe.Recipe, error) {
	// Checked before any parsing or call is attempted.
	if p.provider == nil {
		return nil, apperrors.NewMissingCredentialError()
	}

	form, err := ingest.Parse(req)
	if err != nil {
		return nil, err
	}

	in := ai.ComposeInput{
		Language:    form.Language,
		CuisineType: form.CuisineType,
		Ingredients: form.Ingredients,
		ImageURL:    form.ImageURL,
	}

	if form.ImageMode() {
		in.Mode = recipe.ModeAnalyzeImage
	} else {
		in.Mode = recipe.ModeFromIngredients
	}

	if form.Image != nil {
		normalized, err := p.normalizer.Normalize(form.Image.Bytes)
		if err != nil {
			return nil, err
		}
		slog.Debug("image normalized",
			"request_id", requestID,
			"width", normalized.Width,
			"height", normalized.Height,
			"bytes", len(normalized.Bytes))

		if len(normalized.Bytes) > p.cfg.Pipeline.InlineImageLimitBytes && p.uploader != nil {
			url, err := p.uploadImage(ctx, requestID, normalized)
			if err != nil {
				return nil, err
			}
			in.ImageURL = url
		} else {
			in.Inline = &recipe.InlineImage{
				Bytes:    normalized.Bytes,
				MimeType: normalized.MimeType,
			}
		}
	}

	genReq := p.composer.Compose(in)

	text, err := p.provider.Generate(ctx, genReq)
	if err != nil {
		return nil, recipe.ClassifyProviderError(err)
	}

	result, err := recipe.Repair(text)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateRecipe(result); err != nil {
		return nil, err
	}

	// detectedIngredients is an image-mode field only.
	if in.Mode == recipe.ModeFromIngredients {
		result.DetectedIngredients = nil
	}

	return result, nil
}

// uploadImage switches an oversized normalized image to reference transport.
func (p *Pipeline) uploadImage(ctx context.Context, requestID string, img *imaging.NormalizedImage) (string, error) {
	path := fmt.Sprintf("uploads/%s.jpg", requestID)
	url, err := p.uploader.UploadImage(ctx, p.cfg.StorageBucket, path, img.Bytes, img.MimeType)
	if err != nil {
		return "", apperrors.NewUpstreamError("image upload failed", err)
	}
	return url, nil
}

// Classify maps any stage failure onto the fixed taxonomy. Already-classified
// errors pass through; anything unrecognized becomes an upstream failure.
func Classify(err error) *apperrors.AppError {
	if appErr := recipe.ClassifyProviderError(err); appErr != nil {
		return appErr
	}
	return apperrors.NewUpstreamError("unknown failure", err)
}
