package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/spec"
)

func newSchemaCmd(_ *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the bench spec YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := spec.JSONSchema()
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create schema dir: %w", err)
			}
			if err := os.WriteFile(out, []byte(doc+"\n"), 0o644); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			slog.Info("Wrote JSON schema", "path", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the schema to a file instead of stdout")
	return cmd
}
