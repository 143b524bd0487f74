package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeScenarios(t *testing.T) {
	cases := []struct {
		name     string
		lines    []Line
		subtotal string
		discount string
		final    string
		qty      int
	}{
		{name: "single unit no discount", lines: []Line{{ProductID: "a", Quantity: 1, UnitPrice: dec("1000")}}, subtotal: "1000", discount: "0", final: "1000", qty: 1},
		{name: "two units of one product", lines: []Line{{ProductID: "a", Quantity: 2, UnitPrice: dec("1000")}}, subtotal: "2000", discount: "200", final: "1800", qty: 2},
		{name: "two distinct products", lines: []Line{{ProductID: "a", Quantity: 1, UnitPrice: dec("500")}, {ProductID: "b", Quantity: 1, UnitPrice: dec("1500")}}, subtotal: "2000", discount: "200", final: "1800", qty: 2},
		{name: "empty cart", lines: nil, subtotal: "0", discount: "0", final: "0", qty: 0},
		{name: "fractional prices round to cents", lines: []Line{{ProductID: "a", Quantity: 3, UnitPrice: dec("19.99")}}, subtotal: "59.97", discount: "6", final: "53.97", qty: 3},
		{name: "zero quantity ignored", lines: []Line{{ProductID: "a", Quantity: 0, UnitPrice: dec("999")}, {ProductID: "b", Quantity: 1, UnitPrice: dec("10")}}, subtotal: "10", discount: "0", final: "10", qty: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.lines)
			require.True(t, dec(tc.subtotal).Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			require.True(t, dec(tc.discount).Equal(got.DiscountAmount), "discount %s", got.DiscountAmount)
			require.True(t, dec(tc.final).Equal(got.FinalAmount), "final %s", got.FinalAmount)
			require.Equal(t, tc.qty, got.Quantity)
		})
	}
}

func TestComputeInvariants(t *testing.T) {
	prices := []string{"0", "0.01", "1", "9.99", "250", "1000", "2499.95"}
	for _, p := range prices {
		for q1 := 0; q1 <= 4; q1++ {
			for q2 := 0; q2 <= 4; q2++ {
				lines := []Line{
					{ProductID: "a", Quantity: q1, UnitPrice: dec(p)},
					{ProductID: "b", Quantity: q2, UnitPrice: dec("12.50")},
				}
				got := Compute(lines)
				require.True(t, got.FinalAmount.Equal(got.Subtotal.Sub(got.DiscountAmount)))
				require.False(t, got.DiscountAmount.IsNegative())
				require.False(t, got.FinalAmount.IsNegative())
				require.True(t, got.DiscountAmount.LessThanOrEqual(got.Subtotal))
				if q1+q2 < DiscountMinQuantity {
					require.True(t, got.DiscountAmount.IsZero())
				} else {
					require.True(t, got.DiscountAmount.Equal(got.Subtotal.Mul(DiscountRate()).Round(2)))
				}
			}
		}
	}
}

func TestDiscountRateReported(t *testing.T) {
	got := Compute([]Line{{ProductID: "a", Quantity: 1, UnitPrice: dec("100")}})
	require.True(t, got.DiscountRate.IsZero())

	got = Compute([]Line{{ProductID: "a", Quantity: 2, UnitPrice: dec("100")}})
	require.True(t, got.DiscountRate.Equal(dec("0.10")))
}

func TestValidateQuantity(t *testing.T) {
	require.NoError(t, ValidateQuantity("p1", 1, 1))
	require.NoError(t, ValidateQuantity("p1", 3, 10))

	err := ValidateQuantity("p1", 5, 3)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "p1", verr.ProductID)
	require.Equal(t, 5, verr.Requested)
	require.Equal(t, 3, verr.Available)
	require.Equal(t, ReasonExceedsStock, verr.Reason)

	err = ValidateQuantity("p1", 0, 3)
	require.True(t, errors.As(err, &verr))
	require.Equal(t, ReasonNonPositive, verr.Reason)
}

func TestClampQuantity(t *testing.T) {
	require.Equal(t, 1, ClampQuantity(0, 5))
	require.Equal(t, 1, ClampQuantity(-3, 5))
	require.Equal(t, 3, ClampQuantity(3, 5))
	require.Equal(t, 5, ClampQuantity(9, 5))
	require.Equal(t, 0, ClampQuantity(2, 0))
}

func TestLineHelpersAgreeWithCompute(t *testing.T) {
	lines := []Line{{ProductID: "a", Quantity: 2, UnitPrice: dec("1000")}, {ProductID: "b", Quantity: 1, UnitPrice: dec("250.50")}}
	totals := Compute(lines)
	require.True(t, Discount(lines).Equal(totals.DiscountAmount))
	require.True(t, FinalAmount(lines).Equal(totals.FinalAmount))
	require.True(t, FinalAmount(lines).Equal(Subtotal(lines).Sub(Discount(lines))))
	require.True(t, Discount(lines[1:]).IsZero())
}

func TestDiscountRateIsFixed(t *testing.T) {
	rate := DiscountRate()
	rate = rate.Add(dec("0.5"))
	require.True(t, DiscountRate().Equal(dec("0.10")))
	require.False(t, rate.Equal(DiscountRate()))
}
