package checkout

import (
	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
)

var (
	taxRate               = decimal.RequireFromString("0.10")
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingFee       = decimal.NewFromInt(10)
)

type Pricing struct {
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
}

// ComputePricing : taxe de 10 % arrondie au centime, port offert au-delà de 100.
func ComputePricing(items []models.OrderItem) Pricing {
	itemsPrice := decimal.Zero
	for _, it := range items {
		itemsPrice = itemsPrice.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := flatShippingFee
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := itemsPrice.Mul(taxRate).Round(2)

	return Pricing{
		ItemsPrice:    itemsPrice,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    itemsPrice.Add(tax).Add(shipping),
	}
}

func (p Pricing) apply(o *models.Order) {
	o.ItemsPrice = p.ItemsPrice.InexactFloat64()
	o.TaxPrice = p.TaxPrice.InexactFloat64()
	o.ShippingPrice = p.ShippingPrice.InexactFloat64()
	o.TotalPrice = p.TotalPrice.InexactFloat64()
}

// ToCents convertit un montant en unités mineures, arrondi.
func ToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

func centsOf(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
