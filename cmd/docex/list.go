package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List PDF documents in the bucket or local directory",
		Example: "  docex list --bucket document-samples --prefix inbox/",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildService(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			docs, err := svc.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Println("no documents found")
				return nil
			}
			for _, d := range docs {
				when := ""
				if d.ModifiedUnix > 0 {
					when = time.Unix(d.ModifiedUnix, 0).Format("2006-01-02 15:04")
				}
				fmt.Printf("%-60s %10d  %s\n", d.Key, d.Size, when)
			}
			return nil
		},
	}
}
