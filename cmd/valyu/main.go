// Command valyu is a thin CLI over the Valyu API: search, content
// extraction, dataset downloads and deep research from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/valyu-network/valyu-go/valyu"
)

var verbose bool

func main() {
	// Load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "valyu",
		Short: "Search, extract and research with the Valyu API",
		Long: `valyu is a command-line client for the Valyu API.

Requires VALYU_API_KEY in the environment or a .env file.

Examples:
  valyu search "What is Kubernetes?"
  valyu search --type web --max-results 5 "Latest Go release"
  valyu contents https://en.wikipedia.org/wiki/Go_(programming_language)
  valyu dataset valyu/valyu-arxiv ./data
  valyu research "State of quantum computing hardware in 2026"`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newContentsCmd())
	rootCmd.AddCommand(newDatasetCmd())
	rootCmd.AddCommand(newResearchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds the API client shared by all subcommands.
func newClient() (*valyu.Client, error) {
	var opts []valyu.ClientOption
	if verbose {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts = append(opts, valyu.WithLogger(log))
	}
	client, err := valyu.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w (set VALYU_API_KEY or create a .env file)", err)
	}
	return client, nil
}
