package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Run one query through the pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		query := strings.Join(args, " ")
		resp := a.pipeline.Process(ctx, query)

		if askJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		fmt.Printf("session: %s\n", resp.SessionID)
		if resp.Plan != nil {
			fmt.Printf("plan: %s", resp.Plan.Analysis)
			if resp.Plan.Fallback {
				fmt.Print(" (fallback)")
			}
			fmt.Println()
		}
		for _, step := range resp.Steps {
			status := "ok"
			if !step.Success {
				status = "failed: " + step.Error
			}
			fmt.Printf("  %d. [%s] %s: %s\n", step.Step, step.Agent, step.Description, status)
			if step.Retrieval != nil && step.Retrieval.Summary != "" {
				fmt.Printf("     %s\n", step.Retrieval.Summary)
			}
			if step.Execution != nil {
				fmt.Printf("     %s\n", step.Execution.Message)
			}
		}
		if resp.Summary != nil {
			fmt.Printf("steps: %d ok, %d failed; documents: %d\n",
				resp.Summary.SuccessfulSteps, resp.Summary.FailedSteps,
				resp.Summary.RetrievedDocuments)
			for _, ach := range resp.Summary.KeyAchievements {
				fmt.Printf("  - %s\n", ach)
			}
		}
		if !resp.Success {
			return fmt.Errorf("query failed: %s", resp.Error)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full response as JSON")
}
