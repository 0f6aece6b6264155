package main

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docex/internal/blueprint"
	"docex/internal/config"
	"docex/internal/extract"
	"docex/internal/model"
	"docex/internal/ocr"
	"docex/internal/storage"
)

var logger zerolog.Logger

// Execute builds the command tree and runs it.
func Execute() error {
	return buildRootCmd().Execute()
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docex",
		Short:         "Extract structured attributes from PDF documents with OCR and a foundation model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file path (yaml/json/toml)")
	pf.String("bucket", "", "S3 bucket holding the documents")
	pf.String("prefix", "", "Key prefix to list under")
	pf.String("region", "", "AWS region")
	pf.String("local-dir", "", "Serve documents from a local directory instead of S3")
	pf.String("model", "", "Model id for extraction")
	pf.String("blueprint", "", "Default blueprint id")
	pf.String("blueprint-dir", "", "Directory of user blueprint YAML files")
	pf.String("ocr-backend", "", "OCR backend: textract|textract-async|tesseract|embedded")
	pf.String("languages", "", "Comma-separated OCR languages for the tesseract backend")
	pf.Int("max-pages", 0, "Maximum pages to process per document")
	pf.Int("render-dpi", 0, "DPI for page rasterization")
	pf.String("log-level", "info", "Log level: debug|info|warn|error")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(flagString(cmd, "log-level"))
		if err != nil {
			return fmt.Errorf("bad log level: %w", err)
		}
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		logger = zerolog.New(out).With().Timestamp().Logger().Level(lvl)
		return nil
	}

	root.AddCommand(newListCmd())
	root.AddCommand(newBlueprintsCmd())
	root.AddCommand(newOCRCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newServeCmd())
	return root
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// resolveConfig merges, lowest precedence first: config file, DOCEX_*
// environment variables, command line flags, package defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	path := flagString(cmd, "config")
	if path == "" {
		path = os.Getenv("DOCEX_CONFIG")
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	cfg = config.FromEnv(cfg)

	overlay := func(dst *string, name string) {
		if cmd.Flags().Changed(name) {
			*dst = flagString(cmd, name)
		}
	}
	overlayInt := func(dst *int, name string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetInt(name)
		}
	}
	overlay(&cfg.Bucket, "bucket")
	overlay(&cfg.Prefix, "prefix")
	overlay(&cfg.Region, "region")
	overlay(&cfg.LocalDir, "local-dir")
	overlay(&cfg.Model, "model")
	overlay(&cfg.Blueprint, "blueprint")
	overlay(&cfg.BlueprintDir, "blueprint-dir")
	overlay(&cfg.OCRBackend, "ocr-backend")
	overlayInt(&cfg.MaxPages, "max-pages")
	overlayInt(&cfg.RenderDPI, "render-dpi")

	return config.ApplyDefaults(cfg), nil
}

// buildService wires storage, OCR, blueprints and the model client from the
// resolved config.
func buildService(ctx context.Context, cmd *cobra.Command, cfg config.Config) (*extract.Service, error) {
	if cfg.Bucket == "" && cfg.LocalDir == "" {
		return nil, fmt.Errorf("either --bucket or --local-dir is required")
	}
	reg := blueprint.NewRegistry()
	if err := reg.LoadDir(cfg.BlueprintDir); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	var store storage.Store
	bucket := cfg.Bucket
	if cfg.LocalDir != "" {
		ls, err := storage.NewLocal(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		store = ls
		bucket = ls.Root()
	} else {
		store = storage.NewS3FromConfig(awsCfg, cfg.Bucket, cfg.Prefix)
	}

	languages := splitCSV(flagString(cmd, "languages"))

	return extract.New(extract.Options{
		Store:            store,
		Registry:         reg,
		Invoker:          model.NewBedrock(awsCfg),
		Textract:         textract.NewFromConfig(awsCfg),
		Bucket:           bucket,
		DefaultBlueprint: cfg.Blueprint,
		DefaultModel:     cfg.Model,
		DefaultBackend:   cfg.OCRBackend,
		RenderDPI:        cfg.RenderDPI,
		MaxPages:         cfg.MaxPages,
		MaxChars:         cfg.MaxChars,
		Languages:        languages,
		MaxInflight:      cfg.MaxInflight,
		Log:              logger,
	})
}

// ocrBackendOrDefault picks the request backend for the ocr subcommand.
func ocrBackendOrDefault(requested, configured string) string {
	if requested != "" {
		return requested
	}
	if configured != "" {
		return configured
	}
	return ocr.BackendTextract
}
