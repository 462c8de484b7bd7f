package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FactureStatus string

const (
	FactureStatusRecorded     FactureStatus = "enregistree"
	FactureStatusStockApplied FactureStatus = "stock_deduite"
	FactureStatusStockPending FactureStatus = "stock_en_attente"
)

// Vente is one sale line on a facture. Exactly one of PriceUSD/PriceCDF is
// non-zero, matching the line's selected currency.
type Vente struct {
	ProductID string          `json:"productId"`
	DepotCode string          `json:"depotCode"`
	Qte       int             `json:"qte"`
	Taux      decimal.Decimal `json:"taux"`
	PriceUSD  decimal.Decimal `json:"priceUsd"`
	PriceCDF  decimal.Decimal `json:"priceCdf"`
}

// FactureRequest is the createFacture payload. Field order matches the backend
// contract and must not be reordered.
type FactureRequest struct {
	TableID      string          `json:"tableId"`
	UserID       string          `json:"userId"`
	ReductionCDF decimal.Decimal `json:"reductionCdf"`
	ReductionUSD decimal.Decimal `json:"reductionUsd"`
	AmountCDF    decimal.Decimal `json:"amountCdf"`
	AmountUSD    decimal.Decimal `json:"amountUsd"`
	Client       string          `json:"client"`
	Contact      string          `json:"contact"`
	Description  string          `json:"description"`
	Status       FactureStatus   `json:"status"`
	TypePaiement string          `json:"typePaiement"`
	Ventes       []Vente         `json:"ventes"`
}

// FactureResponse is the billing service reply to createFacture.
type FactureResponse struct {
	Success bool         `json:"success"`
	Data    *FactureData `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

type FactureData struct {
	ID string `json:"id"`
}

// Facture is the persisted record on the billing side.
type Facture struct {
	ID           string          `json:"id"`
	TableID      string          `json:"tableId"`
	UserID       string          `json:"userId"`
	ReductionCDF decimal.Decimal `json:"reductionCdf"`
	ReductionUSD decimal.Decimal `json:"reductionUsd"`
	AmountCDF    decimal.Decimal `json:"amountCdf"`
	AmountUSD    decimal.Decimal `json:"amountUsd"`
	Client       string          `json:"client"`
	Contact      string          `json:"contact"`
	Description  string          `json:"description"`
	Status       FactureStatus   `json:"status"`
	TypePaiement string          `json:"typePaiement"`
	Ventes       []Vente         `json:"ventes"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FactureCreatedEvent is published to Kafka after a facture is committed.
type FactureCreatedEvent struct {
	FactureID string    `json:"factureId"`
	TableID   string    `json:"tableId"`
	UserID    string    `json:"userId"`
	Ventes    []Vente   `json:"ventes"`
	Timestamp time.Time `json:"timestamp"`
}
