package allocation

import (
	"time"

	"bitbucket.org/mmdatafocus/goatfarm_backend/models"
	"bitbucket.org/mmdatafocus/goatfarm_backend/utils"
	"github.com/shopspring/decimal"
)

// Pricing constants. Tuned against historical sales, change only together.
var (
	careAdjustmentPerMonth = decimal.RequireFromString("0.05")
	careAdjustmentCap      = decimal.RequireFromString("0.5")
	weightPremium          = decimal.RequireFromString("0.10")
	weightDiscount         = decimal.RequireFromString("-0.10")
	healthFactor           = decimal.RequireFromString("0.05")
	investmentRecoveryRate = decimal.RequireFromString("1.2")

	heavyWeightThreshold = decimal.NewFromInt(35)
	lightWeightThreshold = decimal.NewFromInt(28)
)

// SuggestPrice advises a sale price for the goat as of the given day.
//
//	base        = purchase price
//	months      = max(1, daysOnFarm / 30)
//	careAdj     = min(0.5, months * 0.05)
//	weightAdj   = +0.10 above 35, -0.10 below 28, otherwise 0
//	healthAdj   = 0.05
//	suggestion  = base * (1 + careAdj + weightAdj + healthAdj) + specific * 1.2
//
// The result is rounded to whole currency units; this is the only place in
// the package where rounding to units happens. The function never reads or
// writes state.
func SuggestPrice(goat *models.Goat, specificExpenseTotal decimal.Decimal, asOf time.Time) (decimal.Decimal, error) {
	if goat.PurchasePrice.IsNegative() {
		return decimal.Zero, utils.NewValidationError("Goat", "purchase_price", "must not be negative")
	}
	if goat.CurrentWeight.IsNegative() {
		return decimal.Zero, utils.NewValidationError("Goat", "current_weight", "must not be negative")
	}
	if specificExpenseTotal.IsNegative() {
		return decimal.Zero, utils.NewValidationError("Goat", "specific_expense_total", "must not be negative")
	}
	if goat.PurchaseDate.IsZero() {
		return decimal.Zero, utils.NewValidationError("Goat", "purchase_date", "is required")
	}

	days := int64(asOf.Sub(goat.PurchaseDate).Hours() / 24)
	months := days / 30
	if months < 1 {
		months = 1
	}

	careAdjustment := careAdjustmentPerMonth.Mul(decimal.NewFromInt(months))
	if careAdjustment.GreaterThan(careAdjustmentCap) {
		careAdjustment = careAdjustmentCap
	}

	weightAdjustment := decimal.Zero
	if goat.CurrentWeight.GreaterThan(heavyWeightThreshold) {
		weightAdjustment = weightPremium
	} else if goat.CurrentWeight.LessThan(lightWeightThreshold) {
		weightAdjustment = weightDiscount
	}

	multiplier := decimal.NewFromInt(1).
		Add(careAdjustment).
		Add(weightAdjustment).
		Add(healthFactor)

	suggestion := goat.PurchasePrice.Mul(multiplier).
		Add(specificExpenseTotal.Mul(investmentRecoveryRate))

	return suggestion.Round(0), nil
}
