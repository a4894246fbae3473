package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineConfig(t *testing.T) {
	// Create a temporary config file for testing
	configContent := `pipeline:
  model: gemini-2.0-pro
  image_edge_bound: 1024
  jpeg_quality: 70
  generation_timeout_seconds: 30`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	// Test loading config from YAML
	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	// Verify pipeline config was loaded
	if cfg.Pipeline.Model != "gemini-2.0-pro" {
		t.Errorf("Expected model to be 'gemini-2.0-pro', got '%s'", cfg.Pipeline.Model)
	}
	if cfg.Pipeline.ImageEdgeBound != 1024 {
		t.Errorf("Expected image_edge_bound to be 1024, got %d", cfg.Pipeline.ImageEdgeBound)
	}
	if cfg.Pipeline.JPEGQuality != 70 {
		t.Errorf("Expected jpeg_quality to be 70, got %d", cfg.Pipeline.JPEGQuality)
	}
	if cfg.Pipeline.GenerationTimeoutSeconds != 30 {
		t.Errorf("Expected generation_timeout_seconds to be 30, got %d", cfg.Pipeline.GenerationTimeoutSeconds)
	}
}

func TestLoadPipelineConfigPartial(t *testing.T) {
	// Test with partial config (only model specified)
	configContent := `pipeline:
  model: custom-model`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_partial.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	cfg.SetPipelineDefaults() // Set defaults first
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	// Verify model was loaded but defaults applied for other fields
	if cfg.Pipeline.Model != "custom-model" {
		t.Errorf("Expected model to be 'custom-model', got '%s'", cfg.Pipeline.Model)
	}
	if cfg.Pipeline.ImageEdgeBound != 800 {
		t.Errorf("Expected image_edge_bound to be 800 (default), got %d", cfg.Pipeline.ImageEdgeBound)
	}
	if cfg.Pipeline.JPEGQuality != 82 {
		t.Errorf("Expected jpeg_quality to be 82 (default), got %d", cfg.Pipeline.JPEGQuality)
	}
}

func TestLoadPipelineConfigDefaults(t *testing.T) {
	// Test without any YAML file
	cfg := &Config{}
	cfg.SetPipelineDefaults()

	// Verify defaults
	if cfg.Pipeline.ImageEdgeBound != 800 {
		t.Errorf("Expected image_edge_bound to be 800 (default), got %d", cfg.Pipeline.ImageEdgeBound)
	}
	if cfg.Pipeline.JPEGQuality != 82 {
		t.Errorf("Expected jpeg_quality to be 82 (default), got %d", cfg.Pipeline.JPEGQuality)
	}
	if cfg.Pipeline.GenerationTimeoutSeconds != 60 {
		t.Errorf("Expected generation_timeout_seconds to be 60 (default), got %d", cfg.Pipeline.GenerationTimeoutSeconds)
	}
	if cfg.Pipeline.MaxBodyBytes != 10<<20 {
		t.Errorf("Expected max_body_bytes to be 10 MiB (default), got %d", cfg.Pipeline.MaxBodyBytes)
	}
}

func TestLoadPipelineConfigFileNotFound(t *testing.T) {
	// Test with non-existent file
	cfg := &Config{}
	err := cfg.LoadFromYAML("non_existent_file.yaml")

	// Should not return an error for non-existent files
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}
}

func TestLoadPipelineConfigInvalidYAML(t *testing.T) {
	// Test with invalid YAML content
	configContent := `pipeline:
  model: gemini
  invalid_yaml: [unclosed`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_invalid.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestValidateRejectsBadBounds(t *testing.T) {
	cfg := &Config{}
	cfg.SetPipelineDefaults()
	cfg.Pipeline.JPEGQuality = 150
	if err := cfg.validate(); err == nil {
		t.Error("Expected error for jpeg_quality out of range, got nil")
	}

	cfg = &Config{}
	cfg.SetPipelineDefaults()
	cfg.Pipeline.ImageEdgeBound = 4
	if err := cfg.validate(); err == nil {
		t.Error("Expected error for tiny image_edge_bound, got nil")
	}
}
