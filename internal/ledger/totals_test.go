package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotals(t *testing.T) {
	t.Run("single USD line, no discount", func(t *testing.T) {
		cart := NewCart(dec("2000"))
		cart.AddLine(usdProduct("p1", "Poulet", "10"))
		cart.AdjustQuantity(0, 1)

		totals := cart.Totals()

		if !totals.TotalUSD.Equal(dec("20")) {
			t.Errorf("totalUsd: expected 20, got %s", totals.TotalUSD)
		}
		if !totals.TotalCDF.IsZero() {
			t.Errorf("totalCdf: expected 0, got %s", totals.TotalCDF)
		}
		if !totals.TotalUSDInCDF.Equal(dec("40000")) {
			t.Errorf("totalUsdInCdf: expected 40000, got %s", totals.TotalUSDInCDF)
		}
		if !totals.FinalTotalCDF.Equal(dec("40000")) {
			t.Errorf("finalTotalCdf: expected 40000, got %s", totals.FinalTotalCDF)
		}
		if !totals.FinalTotalUSD.Equal(dec("20")) {
			t.Errorf("finalTotalUsd: expected 20, got %s", totals.FinalTotalUSD)
		}
	})

	t.Run("USD discount larger than the USD bucket is clamped", func(t *testing.T) {
		cart := NewCart(dec("2000"))
		cart.AddLine(usdProduct("p1", "Poulet", "10"))
		cart.AdjustQuantity(0, 1)
		cart.SetDiscount(dec("25"), true)

		totals := cart.Totals()

		if !totals.ReductionUSD.Equal(dec("20")) {
			t.Errorf("reductionUsd: expected clamp to 20, got %s", totals.ReductionUSD)
		}
		if !totals.FinalTotalCDF.IsZero() {
			t.Errorf("finalTotalCdf: expected 0, got %s", totals.FinalTotalCDF)
		}
		if !totals.ReductionCDF.IsZero() {
			t.Errorf("reductionCdf: expected 0 in USD mode, got %s", totals.ReductionCDF)
		}
	})

	t.Run("mixed currency buckets", func(t *testing.T) {
		cart := NewCart(dec("1000"))
		cart.AddLine(usdProduct("p1", "Poulet", "5"))
		cart.ToggleCurrency(0)
		cart.AddLine(usdProduct("p2", "Jus", "5"))

		totals := cart.Totals()

		if !totals.TotalCDF.Equal(dec("5000")) {
			t.Errorf("totalCdf: expected 5000, got %s", totals.TotalCDF)
		}
		if !totals.TotalUSD.Equal(dec("5")) {
			t.Errorf("totalUsd: expected 5, got %s", totals.TotalUSD)
		}
		if !totals.TotalUSDInCDF.Equal(dec("5000")) {
			t.Errorf("totalUsdInCdf: expected 5000, got %s", totals.TotalUSDInCDF)
		}
		if !totals.GrossTotalCDF.Equal(dec("10000")) {
			t.Errorf("grossTotalCdf: expected 10000, got %s", totals.GrossTotalCDF)
		}
	})

	t.Run("CDF discount applies to the combined gross", func(t *testing.T) {
		cart := NewCart(dec("1000"))
		cart.AddLine(usdProduct("p1", "Poulet", "5"))
		cart.ToggleCurrency(0)
		cart.AddLine(usdProduct("p2", "Jus", "5"))
		cart.SetDiscount(dec("3000"), false)

		totals := cart.Totals()

		if !totals.ReductionCDF.Equal(dec("3000")) {
			t.Errorf("reductionCdf: expected 3000, got %s", totals.ReductionCDF)
		}
		if !totals.FinalTotalCDF.Equal(dec("7000")) {
			t.Errorf("finalTotalCdf: expected 7000, got %s", totals.FinalTotalCDF)
		}
		if !totals.ReductionUSD.IsZero() {
			t.Errorf("reductionUsd: expected 0 in CDF mode, got %s", totals.ReductionUSD)
		}
	})

	t.Run("CDF discount larger than the gross is clamped to zero floor", func(t *testing.T) {
		cart := NewCart(dec("1000"))
		cart.AddLine(usdProduct("p1", "Poulet", "5"))
		cart.SetDiscount(dec("999999"), false)

		totals := cart.Totals()

		if !totals.ReductionCDF.Equal(dec("5000")) {
			t.Errorf("reductionCdf: expected clamp to 5000, got %s", totals.ReductionCDF)
		}
		if !totals.FinalTotalCDF.IsZero() {
			t.Errorf("finalTotalCdf: expected 0, got %s", totals.FinalTotalCDF)
		}
		if totals.FinalTotalCDF.IsNegative() {
			t.Error("finalTotalCdf must never be negative")
		}
	})

	t.Run("USD discount never touches the CDF bucket", func(t *testing.T) {
		cart := NewCart(dec("1000"))
		cart.AddLine(usdProduct("p1", "Poulet", "5"))
		cart.ToggleCurrency(0)
		cart.AddLine(usdProduct("p2", "Jus", "5"))
		cart.SetDiscount(dec("100"), true)

		totals := cart.Totals()

		// USD bucket fully discounted, CDF bucket untouched.
		if !totals.ReductionUSD.Equal(dec("5")) {
			t.Errorf("reductionUsd: expected 5, got %s", totals.ReductionUSD)
		}
		if !totals.FinalTotalCDF.Equal(dec("5000")) {
			t.Errorf("finalTotalCdf: expected 5000, got %s", totals.FinalTotalCDF)
		}
	})

	t.Run("zero rate guards the USD mirror", func(t *testing.T) {
		totals := ComputeTotals([]LineItem{
			{ProductID: "p1", Quantity: 1, BasePriceUSD: dec("10"), CurrencyIsUSD: false, UnitPrice: dec("0"), LineTotal: dec("0")},
		}, decimal.Zero, decimal.Zero, false)

		if !totals.FinalTotalUSD.IsZero() {
			t.Errorf("finalTotalUsd with zero rate: expected 0, got %s", totals.FinalTotalUSD)
		}
	})

	t.Run("empty cart yields all zeros", func(t *testing.T) {
		totals := ComputeTotals(nil, dec("2000"), dec("10"), true)

		for name, v := range map[string]decimal.Decimal{
			"totalCdf":      totals.TotalCDF,
			"totalUsd":      totals.TotalUSD,
			"grossTotalCdf": totals.GrossTotalCDF,
			"reductionUsd":  totals.ReductionUSD,
			"finalTotalCdf": totals.FinalTotalCDF,
		} {
			if !v.IsZero() {
				t.Errorf("%s: expected 0, got %s", name, v)
			}
		}
	})
}
