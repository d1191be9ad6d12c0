package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bookscout/backend/internal/domain"
)

// FeeSchedule is the linear marketplace fee model. Rates are fractions of the
// sale price; ClosingFee is a flat amount in currency units.
type FeeSchedule struct {
	ReferralRate    float64
	ClosingFee      float64
	FulfillmentRate float64
	InventoryRate   float64
	ShippingRate    float64
}

// DefaultFeeSchedule models media items sold through FBA
var DefaultFeeSchedule = FeeSchedule{
	ReferralRate:    0.15,
	ClosingFee:      1.80,
	FulfillmentRate: 0.40,
	InventoryRate:   0.0025,
	ShippingRate:    0.0267,
}

// TotalFees returns every fee charged on a sale at salePrice
func (f FeeSchedule) TotalFees(salePrice float64) float64 {
	return f.ReferralRate*salePrice +
		f.ClosingFee +
		f.FulfillmentRate*salePrice +
		f.InventoryRate*salePrice +
		f.ShippingRate*salePrice
}

// AnalyzeProfitability computes what is left of the product's display price
// after fees and the purchase cost.
func AnalyzeProfitability(product *domain.ProductRecord, purchaseCost float64, fees FeeSchedule) (domain.ProfitabilityReport, error) {
	if product == nil {
		return domain.ProfitabilityReport{}, fmt.Errorf("%w: no product", domain.ErrInvalidPrice)
	}

	salePrice, err := ParsePrice(product.DisplayPrice)
	if err != nil {
		return domain.ProfitabilityReport{}, err
	}

	return domain.ProfitabilityReport{
		Profitability: FormatPrice(NetProfit(salePrice, purchaseCost, fees)),
	}, nil
}

// NetProfit is salePrice minus fees and purchase cost; it may be negative
func NetProfit(salePrice, purchaseCost float64, fees FeeSchedule) float64 {
	return salePrice - (fees.TotalFees(salePrice) + purchaseCost)
}

// ParsePrice converts a display price such as "$19.99" or "$1,024.00" to a number
func ParsePrice(display string) (float64, error) {
	s := strings.TrimSpace(display)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, display)
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, display)
	}
	return price, nil
}

// FormatPrice renders an amount with two decimals, keeping the sign after the symbol
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
