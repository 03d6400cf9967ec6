package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/valyu-network/valyu-go/valyu"
)

func newSearchCmd() *cobra.Command {
	var (
		searchType     string
		maxResults     int
		fastMode       bool
		included       []string
		excluded       []string
		category       string
		startDate      string
		endDate        string
		responseLength string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			opts := &valyu.SearchOptions{
				SearchType:      valyu.SearchType(searchType),
				MaxNumResults:   maxResults,
				FastMode:        fastMode,
				IncludedSources: included,
				ExcludedSources: excluded,
				Category:        category,
				StartDate:       startDate,
				EndDate:         endDate,
			}
			switch responseLength {
			case "":
			case "short":
				opts.ResponseLength = valyu.ResponseLengthShort
			case "medium":
				opts.ResponseLength = valyu.ResponseLengthMedium
			case "large":
				opts.ResponseLength = valyu.ResponseLengthLarge
			case "max":
				opts.ResponseLength = valyu.ResponseLengthMax
			default:
				return fmt.Errorf("invalid --length %q: want short, medium, large or max", responseLength)
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Searching..."
			s.Start()
			resp, err := client.Search(cmd.Context(), args[0], opts)
			s.Stop()
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("search failed: %s", resp.Error)
			}

			fmt.Printf("Found %d results (cost $%.4f)\n\n", len(resp.Results), resp.TotalDeductionDollars)
			for i, result := range resp.Results {
				fmt.Printf("%d. %s\n   %s\n   relevance %.2f, %d chars\n\n",
					i+1, result.Title, result.URL, result.RelevanceScore, result.Length)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", "all", "Search scope: all, web or proprietary")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 10, "Maximum number of results (1-20)")
	cmd.Flags().BoolVar(&fastMode, "fast", false, "Trade completeness for latency")
	cmd.Flags().StringSliceVar(&included, "include", nil, "Restrict to these sources")
	cmd.Flags().StringSliceVar(&excluded, "exclude", nil, "Exclude these sources")
	cmd.Flags().StringVar(&category, "category", "", "Natural language guide phrase for the ranker")
	cmd.Flags().StringVar(&startDate, "start", "", "Earliest publication date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "Latest publication date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&responseLength, "length", "l", "", "Per-result length: short, medium, large or max")
	return cmd
}
