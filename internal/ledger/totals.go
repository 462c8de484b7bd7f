package ledger

import "github.com/shopspring/decimal"

// Totals carries every cart-level figure the POS screen displays. All fields
// are derived; nothing here is stored.
type Totals struct {
	TotalCDF      decimal.Decimal `json:"totalCdf"`
	TotalUSD      decimal.Decimal `json:"totalUsd"`
	TotalUSDInCDF decimal.Decimal `json:"totalUsdInCdf"`
	GrossTotalCDF decimal.Decimal `json:"grossTotalCdf"`
	ReductionCDF  decimal.Decimal `json:"reductionCdf"`
	ReductionUSD  decimal.Decimal `json:"reductionUsd"`
	FinalTotalCDF decimal.Decimal `json:"finalTotalCdf"`
	FinalTotalUSD decimal.Decimal `json:"finalTotalUsd"`
}

// ComputeTotals sums each currency bucket and applies the discount against the
// bucket the operator selected. The discount is clamped to that bucket's own
// subtotal and never spills into the other currency, so no total can go
// negative. A CDF-mode discount therefore cannot reduce the USD-priced
// portion, and vice versa.
func ComputeTotals(lines []LineItem, rate, discount decimal.Decimal, discountIsUSD bool) Totals {
	t := Totals{
		TotalCDF:      decimal.Zero,
		TotalUSD:      decimal.Zero,
		TotalUSDInCDF: decimal.Zero,
		GrossTotalCDF: decimal.Zero,
		ReductionCDF:  decimal.Zero,
		ReductionUSD:  decimal.Zero,
		FinalTotalCDF: decimal.Zero,
		FinalTotalUSD: decimal.Zero,
	}

	for _, line := range lines {
		if line.CurrencyIsUSD {
			t.TotalUSD = t.TotalUSD.Add(line.LineTotal)
		} else {
			t.TotalCDF = t.TotalCDF.Add(line.LineTotal)
		}
	}

	t.TotalUSDInCDF = t.TotalUSD.Mul(rate)
	t.GrossTotalCDF = t.TotalCDF.Add(t.TotalUSDInCDF)

	if discount.IsNegative() {
		discount = decimal.Zero
	}

	if discountIsUSD {
		t.ReductionUSD = decimal.Min(discount, t.TotalUSD)
		adjustedUSD := t.TotalUSD.Sub(t.ReductionUSD)
		t.FinalTotalCDF = t.TotalCDF.Add(adjustedUSD.Mul(rate))
	} else {
		t.ReductionCDF = decimal.Min(discount, t.GrossTotalCDF)
		t.FinalTotalCDF = t.GrossTotalCDF.Sub(t.ReductionCDF)
	}

	if rate.IsPositive() {
		t.FinalTotalUSD = t.FinalTotalCDF.Div(rate)
	}

	return t
}
