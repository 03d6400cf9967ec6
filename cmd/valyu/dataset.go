package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/valyu-network/valyu-go/valyu"
)

func newDatasetCmd() *cobra.Command {
	var (
		samplesOnly bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "dataset [org/name] [dir]",
		Short: "Download a training dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Downloading..."
			s.Start()
			opts := &valyu.DatasetOptions{
				Concurrency: concurrency,
				OnProgress: func(done, total int) {
					s.Suffix = fmt.Sprintf(" Downloading %d/%d files...", done, total)
				},
			}

			var download *valyu.DatasetDownload
			if samplesOnly {
				download, err = client.LoadDatasetSamples(cmd.Context(), args[0], args[1], opts)
			} else {
				download, err = client.LoadDataset(cmd.Context(), args[0], args[1], opts)
			}
			s.Stop()
			if err != nil {
				return err
			}

			fmt.Printf("Downloaded %d files (%d bytes) to %s\n", download.Files, download.Bytes, download.Dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&samplesOnly, "samples", false, "Download the public sample archive instead of the full dataset")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Parallel file downloads")
	return cmd
}
