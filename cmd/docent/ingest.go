package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Index documents into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if ingestName != "" && len(args) > 1 {
			return fmt.Errorf("--name only applies to a single file")
		}

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			name := ingestName
			if name == "" {
				name = filepath.Base(path)
			}

			text, err := a.extractor.ExtractText(name, data)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}

			chunks, err := a.store.Ingest(ctx, name, text)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			fmt.Printf("%s: %d chunks\n", name, chunks)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "Document name (defaults to the file name)")
}
