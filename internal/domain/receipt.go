package domain

import "github.com/shopspring/decimal"

// ReceiptLine is one printed row: the line's effective unit price and total in
// the currency the operator selected for it.
type ReceiptLine struct {
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Qte         int             `json:"qte"`
	Total       decimal.Decimal `json:"total"`
}

// ReceiptDocument is a print-oriented projection of an already-computed cart.
// It consumes computed totals only and is never a source of financial truth.
type ReceiptDocument struct {
	Organization string          `json:"organization"`
	Address      string          `json:"address"`
	Phone        string          `json:"phone"`
	TableName    string          `json:"tableName"`
	Operator     string          `json:"operator"`
	Lines        []ReceiptLine   `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	NetTotal     decimal.Decimal `json:"netTotal"`
}
