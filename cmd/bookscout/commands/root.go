package commands

import (
	"os"

	"github.com/bookscout/backend/internal/observability"
	"github.com/spf13/cobra"
)

var (
	buyPrice float64
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "bookscout",
	Short: "BookScout - estimate resale profit for a book",
	Long: `BookScout reads the ISBN off a book photo, finds the matching Amazon listing
and estimates the profit of reselling it after marketplace fees.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		observability.Setup(observability.LogConfig{
			Level:       level,
			Format:      "console",
			Output:      os.Stderr,
			ServiceName: "bookscout-cli",
		})
	},
}

func init() {
	rootCmd.PersistentFlags().Float64VarP(&buyPrice, "buy-price", "b", 0, "price paid for the book")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
