package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the CLI and the local server.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	// Storage
	Bucket   string `json:"bucket" yaml:"bucket" toml:"bucket"`
	Prefix   string `json:"prefix" yaml:"prefix" toml:"prefix"`
	Region   string `json:"region" yaml:"region" toml:"region"`
	LocalDir string `json:"local_dir" yaml:"local_dir" toml:"local_dir"`

	// Extraction
	Model        string `json:"model" yaml:"model" toml:"model"`
	Blueprint    string `json:"blueprint" yaml:"blueprint" toml:"blueprint"`
	BlueprintDir string `json:"blueprint_dir" yaml:"blueprint_dir" toml:"blueprint_dir"`
	OCRBackend   string `json:"ocr_backend" yaml:"ocr_backend" toml:"ocr_backend"`
	MaxPages     int    `json:"max_pages" yaml:"max_pages" toml:"max_pages"`
	RenderDPI    int    `json:"render_dpi" yaml:"render_dpi" toml:"render_dpi"`
	MaxChars     int    `json:"max_chars" yaml:"max_chars" toml:"max_chars"`

	// Output
	OutputDir string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`

	// Server
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	MaxInflight int    `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv overlays DOCEX_* environment variables onto cfg. Unset variables
// leave the field untouched, so file values and defaults survive.
func FromEnv(cfg Config) Config {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setStr(&cfg.Bucket, "DOCEX_BUCKET")
	setStr(&cfg.Prefix, "DOCEX_PREFIX")
	setStr(&cfg.Region, "DOCEX_REGION")
	setStr(&cfg.LocalDir, "DOCEX_LOCAL_DIR")
	setStr(&cfg.Model, "DOCEX_MODEL")
	setStr(&cfg.Blueprint, "DOCEX_BLUEPRINT")
	setStr(&cfg.BlueprintDir, "DOCEX_BLUEPRINT_DIR")
	setStr(&cfg.OCRBackend, "DOCEX_OCR_BACKEND")
	setStr(&cfg.OutputDir, "DOCEX_OUTPUT_DIR")
	setStr(&cfg.Addr, "DOCEX_ADDR")
	setInt(&cfg.MaxPages, "DOCEX_MAX_PAGES")
	setInt(&cfg.RenderDPI, "DOCEX_RENDER_DPI")
	setInt(&cfg.MaxChars, "DOCEX_MAX_CHARS")
	setInt(&cfg.MaxInflight, "DOCEX_MAX_INFLIGHT")
	return cfg
}

// ApplyDefaults fills unspecified fields with package defaults.
func ApplyDefaults(cfg Config) Config {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Model == "" {
		cfg.Model = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	}
	if cfg.Blueprint == "" {
		cfg.Blueprint = "invoice"
	}
	if cfg.OCRBackend == "" {
		cfg.OCRBackend = "textract"
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 20
	}
	if cfg.RenderDPI == 0 {
		cfg.RenderDPI = 150
	}
	if cfg.MaxChars == 0 {
		cfg.MaxChars = 50000
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MaxInflight == 0 {
		cfg.MaxInflight = 4
	}
	return cfg
}
