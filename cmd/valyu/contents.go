package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/valyu-network/valyu-go/valyu"
)

func newContentsCmd() *cobra.Command {
	var (
		summarize   bool
		instruction string
		effort      string
	)

	cmd := &cobra.Command{
		Use:   "contents [url...]",
		Short: "Extract content from up to 10 URLs",
		Args:  cobra.RangeArgs(1, 10),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			opts := &valyu.ContentsOptions{
				ExtractEffort: valyu.ExtractEffort(effort),
			}
			if instruction != "" {
				opts.Summary = valyu.SummaryInstruction(instruction)
			} else if summarize {
				opts.Summary = valyu.SummaryFlag(true)
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Extracting..."
			s.Start()
			resp, err := client.Contents(cmd.Context(), args, opts)
			s.Stop()
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("extraction failed: %s", resp.Error)
			}

			fmt.Printf("Processed %d/%d URLs (cost $%.4f)\n", resp.URLsProcessed, resp.URLsRequested, resp.TotalCostDollars)
			for _, result := range resp.Results {
				fmt.Printf("\n== %s ==\n%s\n", result.Title, result.URL)
				if result.Summary != nil {
					fmt.Println(result.Summary.String())
				} else {
					fmt.Printf("%d characters extracted\n", result.Length)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&summarize, "summary", "s", false, "Request an AI summary of each page")
	cmd.Flags().StringVar(&instruction, "instruction", "", "Custom summary instruction (implies --summary)")
	cmd.Flags().StringVar(&effort, "effort", "", "Extraction effort: normal, high or auto")
	return cmd
}
