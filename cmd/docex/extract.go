package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docex/internal/extract"
	"docex/pkg/types"
)

func newExtractCmd() *cobra.Command {
	var (
		mode     string
		upload   bool
		outPath  string
		noStream bool
	)
	cmd := &cobra.Command{
		Use:   "extract <key>",
		Short: "Extract structured attributes from one document",
		Example: "  docex extract inbox/invoice-0042.pdf --blueprint invoice\n" +
			"  docex extract scans/statement.pdf --mode vision --upload",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildService(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}

			// Deltas go to stderr so stdout stays clean JSON.
			var sink io.Writer
			if !noStream {
				sink = os.Stderr
			}
			// Blueprint and model come from the persistent flags via the
			// resolved config defaults.
			res, err := svc.Extract(cmd.Context(), types.ExtractRequest{
				Key:    args[0],
				Mode:   mode,
				Upload: upload,
			}, sink, nil)
			if !noStream {
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return err
			}

			dest := outPath
			if dest == "" && cfg.OutputDir != "" {
				base := strings.TrimSuffix(path.Base(res.Key), filepath.Ext(res.Key))
				dest = filepath.Join(cfg.OutputDir, base+".json")
			}
			if dest != "" {
				if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(dest, res.Attributes, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", dest, err)
				}
				logger.Info().Str("path", dest).Msg("result saved")
			} else {
				fmt.Println(string(res.Attributes))
			}
			if res.ResultKey != "" {
				logger.Info().Str("key", res.ResultKey).Msg("result uploaded")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", extract.ModeText, "Input mode: text|vision")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the result JSON next to the source document")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the result JSON to this file")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "Do not echo model output while it arrives")
	return cmd
}
