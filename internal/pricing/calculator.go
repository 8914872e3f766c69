package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// Flat-rate tax and the free-shipping threshold.
var (
	taxRate           = decimal.NewFromFloat(0.15)
	shippingFlatRate  = decimal.NewFromInt(10)
	freeShippingAbove = decimal.NewFromInt(100)
)

// Prices holds the four monetary components of an order, each rounded
// to two decimal places independently.
type Prices struct {
	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal
}

// Calculate derives order prices from line items whose unit prices have
// already been resolved from the catalog.
//
// Rounding uses decimal.Round(2), which rounds half away from zero.
// Each component is rounded before summing, so the total is the rounded
// sum of three already-rounded values. The two orders of operation can
// differ by a cent at boundary values; this one matches the stored
// totals that the payment verifier later compares against.
func Calculate(items []models.OrderItem) (Prices, error) {
	itemsPrice := decimal.Zero
	for _, item := range items {
		if item.Qty <= 0 {
			return Prices{}, fmt.Errorf("item %s has non-positive quantity %d: %w", item.ProductID, item.Qty, apperrors.ErrValidation)
		}
		if item.Price.IsNegative() {
			return Prices{}, fmt.Errorf("item %s has negative price %s: %w", item.ProductID, item.Price, apperrors.ErrValidation)
		}
		itemsPrice = itemsPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	itemsPrice = itemsPrice.Round(2)

	shippingPrice := shippingFlatRate
	if itemsPrice.GreaterThan(freeShippingAbove) {
		shippingPrice = decimal.Zero
	}
	shippingPrice = shippingPrice.Round(2)

	taxPrice := taxRate.Mul(itemsPrice).Round(2)

	totalPrice := itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return Prices{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    totalPrice,
	}, nil
}
