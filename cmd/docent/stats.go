package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print document store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		stats, err := a.store.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("backend: %s\n", stats.Backend)
		fmt.Printf("chunks:  %d\n", stats.Chunks)
		fmt.Printf("sources: %d\n", stats.Sources)
		fmt.Printf("ready:   %t\n", stats.Ready)

		docs, err := a.store.Documents(ctx)
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			fmt.Println("documents:")
			for _, d := range docs {
				fmt.Printf("  %s: %d chunks\n", d.Name, d.Chunks)
			}
		}
		return nil
	},
}
