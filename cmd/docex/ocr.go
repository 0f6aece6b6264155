package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docex/pkg/types"
)

func newOCRCmd() *cobra.Command {
	var backend string
	var outPath string
	cmd := &cobra.Command{
		Use:     "ocr <key>",
		Short:   "Run OCR on one document and print or save the plain text",
		Example: "  docex ocr inbox/statement.pdf --backend textract\n  docex ocr report.pdf --backend embedded --out report.txt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildService(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			res, err := svc.RunOCR(cmd.Context(), types.OCRRequest{
				Key:     args[0],
				Backend: ocrBackendOrDefault(backend, cfg.OCRBackend),
			})
			if err != nil {
				return err
			}
			logger.Info().Str("backend", res.Backend).Int("pages", res.Pages).
				Float64("confidence", res.Confidence).Dur("dur", res.Duration).
				Msg("ocr complete")
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(res.Text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Printf("wrote %d chars to %s\n", len(res.Text), outPath)
				return nil
			}
			fmt.Println(res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "OCR backend override for this run")
	cmd.Flags().StringVar(&outPath, "out", "", "Write text to this file instead of stdout")
	return cmd
}
