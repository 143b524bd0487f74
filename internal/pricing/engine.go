package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountMinQuantity is the total unit count at which the bulk discount applies.
const DiscountMinQuantity = 2

// discountRate is the fraction taken off the subtotal once the bulk threshold is met.
const discountRate = "0.10"

// DiscountRate returns the bulk discount rate.
func DiscountRate() decimal.Decimal { return decimal.RequireFromString(discountRate) }

// Line is a single priced cart entry.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals aggregates the computed pricing components for a set of lines.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountRate   decimal.Decimal `json:"discountRate"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	Quantity       int             `json:"totalQuantity"`
}

// Subtotal sums unit price times quantity. Non-positive quantities contribute nothing.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// TotalQuantity sums the positive quantities across lines.
func TotalQuantity(lines []Line) int {
	n := 0
	for _, l := range lines {
		if l.Quantity > 0 {
			n += l.Quantity
		}
	}
	return n
}

// Discount is the bulk discount for lines, rounded to cents. It is zero
// below DiscountMinQuantity units.
func Discount(lines []Line) decimal.Decimal {
	return bulkDiscount(Subtotal(lines), TotalQuantity(lines))
}

// FinalAmount is Subtotal minus Discount.
func FinalAmount(lines []Line) decimal.Decimal {
	return Compute(lines).FinalAmount
}

// Compute derives every total for lines in one pass over the inputs.
func Compute(lines []Line) Totals {
	subtotal := Subtotal(lines)
	qty := TotalQuantity(lines)
	discount := bulkDiscount(subtotal, qty)
	rate := decimal.Zero
	if discount.IsPositive() {
		rate = DiscountRate()
	}
	final := subtotal.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return Totals{
		Subtotal:       subtotal,
		DiscountRate:   rate,
		DiscountAmount: discount,
		FinalAmount:    final,
		Quantity:       qty,
	}
}

func bulkDiscount(subtotal decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < DiscountMinQuantity || !subtotal.IsPositive() {
		return decimal.Zero
	}
	return subtotal.Mul(DiscountRate()).Round(2)
}

// ValidationError reports a quantity that cannot be satisfied.
type ValidationError struct {
	ProductID string
	Requested int
	Available int
	Reason    string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.ProductID == "" {
		return fmt.Sprintf("invalid quantity %d: %s", e.Requested, e.Reason)
	}
	return fmt.Sprintf("invalid quantity %d for product %s: %s", e.Requested, e.ProductID, e.Reason)
}

// Reasons reported by ValidateQuantity.
const (
	ReasonNonPositive  = "quantity must be at least 1"
	ReasonExceedsStock = "quantity exceeds available stock"
)

// ValidateQuantity checks that qty is positive and does not exceed stock.
func ValidateQuantity(productID string, qty, stock int) error {
	if qty < 1 {
		return &ValidationError{ProductID: productID, Requested: qty, Available: stock, Reason: ReasonNonPositive}
	}
	if qty > stock {
		return &ValidationError{ProductID: productID, Requested: qty, Available: stock, Reason: ReasonExceedsStock}
	}
	return nil
}

// ClampQuantity bounds qty to [1, stock]. A product without stock clamps to 0.
func ClampQuantity(qty, stock int) int {
	if stock <= 0 {
		return 0
	}
	if qty < 1 {
		return 1
	}
	if qty > stock {
		return stock
	}
	return qty
}
