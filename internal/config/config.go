package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	GeminiAPIKey string

	SupabaseURL            string
	SupabaseServiceRoleKey string
	StorageBucket          string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Pipeline PipelineConfig
}

// PipelineConfig carries the tunable bounds of the recipe pipeline. Loaded
// once at process start and treated as read-only afterwards.
type PipelineConfig struct {
	Model                    string  `yaml:"model"`
	ImageEdgeBound           int     `yaml:"image_edge_bound"`
	JPEGQuality              int     `yaml:"jpeg_quality"`
	GenerationTimeoutSeconds int     `yaml:"generation_timeout_seconds"`
	MaxBodyBytes             int64   `yaml:"max_body_bytes"`
	InlineImageLimitBytes    int     `yaml:"inline_image_limit_bytes"`
	SchemaConstrained        bool    `yaml:"schema_constrained"`
	Temperature              float64 `yaml:"temperature"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		SupabaseURL:              os.Getenv("SUPABASE_URL"),
		SupabaseServiceRoleKey:   os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		StorageBucket:            os.Getenv("STORAGE_BUCKET"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "todays-recipe-ai"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.StorageBucket == "" {
		cfg.StorageBucket = "recipe-images"
	}

	cfg.SetPipelineDefaults()

	// GEMINI_API_KEY is deliberately not required here: a missing credential
	// is classified per request so the server still answers health checks.
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Pipeline PipelineConfig `yaml:"pipeline"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Pipeline.Model != "" {
		c.Pipeline.Model = yamlConfig.Pipeline.Model
	}
	if yamlConfig.Pipeline.ImageEdgeBound > 0 {
		c.Pipeline.ImageEdgeBound = yamlConfig.Pipeline.ImageEdgeBound
	}
	if yamlConfig.Pipeline.JPEGQuality > 0 {
		c.Pipeline.JPEGQuality = yamlConfig.Pipeline.JPEGQuality
	}
	if yamlConfig.Pipeline.GenerationTimeoutSeconds > 0 {
		c.Pipeline.GenerationTimeoutSeconds = yamlConfig.Pipeline.GenerationTimeoutSeconds
	}
	if yamlConfig.Pipeline.MaxBodyBytes > 0 {
		c.Pipeline.MaxBodyBytes = yamlConfig.Pipeline.MaxBodyBytes
	}
	if yamlConfig.Pipeline.InlineImageLimitBytes > 0 {
		c.Pipeline.InlineImageLimitBytes = yamlConfig.Pipeline.InlineImageLimitBytes
	}
	if yamlConfig.Pipeline.SchemaConstrained {
		c.Pipeline.SchemaConstrained = yamlConfig.Pipeline.SchemaConstrained
	}
	if yamlConfig.Pipeline.Temperature > 0 {
		c.Pipeline.Temperature = yamlConfig.Pipeline.Temperature
	}

	return nil
}

func (c *Config) SetPipelineDefaults() {
	if c.Pipeline.Model == "" {
		c.Pipeline.Model = "gemini-2.0-flash"
	}
	if c.Pipeline.ImageEdgeBound == 0 {
		c.Pipeline.ImageEdgeBound = 800
	}
	if c.Pipeline.JPEGQuality == 0 {
		c.Pipeline.JPEGQuality = 82
	}
	if c.Pipeline.GenerationTimeoutSeconds == 0 {
		// Matched to the hosting platform's own request-duration ceiling.
		c.Pipeline.GenerationTimeoutSeconds = 60
	}
	if c.Pipeline.MaxBodyBytes == 0 {
		c.Pipeline.MaxBodyBytes = 10 << 20 // 10 MiB
	}
	if c.Pipeline.InlineImageLimitBytes == 0 {
		c.Pipeline.InlineImageLimitBytes = 3 << 20 // 3 MiB
	}
	if envBool("SCHEMA_CONSTRAINED", true) {
		c.Pipeline.SchemaConstrained = true
	}
	if c.Pipeline.Temperature == 0 {
		c.Pipeline.Temperature = 0.7
	}
}

func (c *Config) validate() error {
	if c.Pipeline.ImageEdgeBound < 16 {
		return fmt.Errorf("pipeline.image_edge_bound must be at least 16, got %d", c.Pipeline.ImageEdgeBound)
	}
	if c.Pipeline.JPEGQuality < 1 || c.Pipeline.JPEGQuality > 100 {
		return fmt.Errorf("pipeline.jpeg_quality must be within 1..100, got %d", c.Pipeline.JPEGQuality)
	}
	if c.Pipeline.MaxBodyBytes < 1024 {
		return fmt.Errorf("pipeline.max_body_bytes must be at least 1024, got %d", c.Pipeline.MaxBodyBytes)
	}
	return nil
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
