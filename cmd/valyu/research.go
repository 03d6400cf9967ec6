package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/valyu-network/valyu-go/valyu"
)

func newResearchCmd() *cobra.Command {
	var (
		model    string
		strategy string
		urls     []string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "research [query]",
		Short: "Run a deep research task and wait for the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			created, err := client.DeepResearch.Create(cmd.Context(), args[0], &valyu.DeepResearchOptions{
				Model:    valyu.DeepResearchModel(model),
				Strategy: strategy,
				URLs:     urls,
			})
			if err != nil {
				return err
			}
			if !created.Success {
				return fmt.Errorf("create task: %s", created.Error)
			}
			fmt.Println("Task created:", created.DeepResearchID)

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Researching..."
			s.Start()
			final, err := client.DeepResearch.Wait(cmd.Context(), created.DeepResearchID, &valyu.WaitOptions{
				OnProgress: func(status *valyu.DeepResearchStatusResponse) {
					if status.Progress != nil {
						s.Suffix = fmt.Sprintf(" Researching, step %d/%d...", status.Progress.CurrentStep, status.Progress.TotalSteps)
					}
				},
			})
			s.Stop()
			if err != nil {
				return err
			}

			report := final.Output.String()
			if raw || final.OutputType == "json" {
				fmt.Println(report)
			} else {
				rendered, renderErr := glamour.Render(report, "dark")
				if renderErr != nil {
					fmt.Println(report)
				} else {
					fmt.Print(rendered)
				}
			}
			if final.Usage != nil {
				fmt.Printf("\nTotal cost: $%.4f\n", final.Usage.TotalCost)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "lite", "Research model: fast, standard, lite or heavy")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Natural language research strategy")
	cmd.Flags().StringSliceVar(&urls, "url", nil, "URLs to extract and analyze")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw report without markdown rendering")
	return cmd
}
