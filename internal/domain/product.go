package domain

import "github.com/shopspring/decimal"

func init() {
	// Wire contract carries plain JSON numbers, not quoted decimals.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. The ledger reads only ID and PriceUSD, falling
// back to PriceCDF converted through the exchange rate when PriceUSD is zero.
type Product struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	PriceUSD    decimal.Decimal `json:"priceUsd"`
	PriceCDF    decimal.Decimal `json:"priceCdf"`
	Category    string          `json:"category"`
	InStock     bool            `json:"inStock"`
}

// Table is a dining table / workstation. A cart cannot be finalized without one.
type Table struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Seats    int    `json:"seats"`
	Occupied bool   `json:"occupied"`
}
