package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docex/internal/blueprint"
)

func newBlueprintsCmd() *cobra.Command {
	var showSchema bool
	cmd := &cobra.Command{
		Use:     "blueprints",
		Short:   "List available blueprints",
		Example: "  docex blueprints\n  docex blueprints --schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			reg := blueprint.NewRegistry()
			if err := reg.LoadDir(cfg.BlueprintDir); err != nil {
				return err
			}
			for _, b := range reg.List() {
				origin := "user"
				if b.Builtin {
					origin = "builtin"
				}
				fmt.Printf("%-16s [%s] %s\n", b.ID, origin, b.Description)
				fmt.Printf("%-16s fields: %s\n", "", strings.Join(b.FieldNames(), ", "))
				if showSchema {
					schema, err := b.SchemaJSON()
					if err != nil {
						return err
					}
					fmt.Println(schema)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSchema, "schema", false, "Print the JSON schema of each blueprint")
	return cmd
}
