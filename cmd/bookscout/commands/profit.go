package commands

import (
	"fmt"

	"github.com/bookscout/backend/internal/domain"
	"github.com/bookscout/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var profitCmd = &cobra.Command{
	Use:   "profit <price>",
	Short: "Compute profitability for a known sale price",
	Long:  "Apply the default marketplace fee model to a sale price such as \"$19.99\" without calling any provider.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfit,
}

func init() {
	rootCmd.AddCommand(profitCmd)
}

func runProfit(cmd *cobra.Command, args []string) error {
	if err := validateBuyPrice(); err != nil {
		return err
	}

	salePrice, err := usecase.ParsePrice(args[0])
	if err != nil {
		return fmt.Errorf("invalid price %q", args[0])
	}

	fees := usecase.DefaultFeeSchedule
	report, err := usecase.AnalyzeProfitability(&domain.ProductRecord{DisplayPrice: args[0]}, buyPrice, fees)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sale price:    %s\n", usecase.FormatPrice(salePrice))
	fmt.Fprintf(out, "Fees:          %s\n", usecase.FormatPrice(fees.TotalFees(salePrice)))
	fmt.Fprintf(out, "Buy price:     %s\n", usecase.FormatPrice(buyPrice))
	fmt.Fprintf(out, "Profitability: %s\n", report.Profitability)
	return nil
}

func validateBuyPrice() error {
	if buyPrice < 0 {
		return fmt.Errorf("buy price must not be negative")
	}
	return nil
}
