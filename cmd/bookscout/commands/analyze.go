package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bookscout/backend/config"
	"github.com/bookscout/backend/internal/app"
	"github.com/bookscout/backend/internal/domain"
	"github.com/spf13/cobra"
)

var analyzeTimeout time.Duration

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Run the full scouting pipeline on a book photo",
	Long: `Run OCR, ISBN extraction, search, product lookup and profitability on a local
image and print the result as JSON. Providers are configured exactly like the server.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall pipeline timeout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := validateBuyPrice(); err != nil {
		return err
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	service, err := app.NewScoutService(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := service.Scout(ctx, image, buyPrice)
	if err != nil {
		var stageErr *domain.StageError
		if errors.As(err, &stageErr) {
			return fmt.Errorf("%s stage: %s", stageErr.Stage, stageErr.Message)
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
