package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docent",
	Short: "Document assistant pipeline",
	Long: `Docent indexes documents and answers free-text requests by planning,
retrieving relevant passages and executing actions over them (summaries,
tasks, checklists, analyses, reports).

Run "docent serve" to expose the HTTP API, or use "ask", "ingest" and
"stats" for one-shot operation against the configured store.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}
