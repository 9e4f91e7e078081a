package domain

import "github.com/shopspring/decimal"

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountFlat    DiscountType = "flat"
	DiscountPercent DiscountType = "percent"
)

// DiscountSpec describes the reduction applied to a sale, if any.
// Value is a dollar amount for flat discounts and a 0-100 percentage for
// percent discounts.
type DiscountSpec struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

func NoDiscount() DiscountSpec {
	return DiscountSpec{Type: DiscountNone}
}

// FinalPrice computes the price charged for a sale. Flat discounts are not
// clamped: a flat discount larger than the base price yields a negative
// final price, matching the tracker's historical behavior. Callers coerce
// invalid discount values to zero before reaching this function.
func FinalPrice(base decimal.Decimal, discount DiscountSpec) decimal.Decimal {
	switch discount.Type {
	case DiscountFlat:
		return base.Sub(discount.Value)
	case DiscountPercent:
		return base.Sub(base.Mul(discount.Value).Div(decimal.NewFromInt(100)))
	default:
		return base
	}
}
