package domain

import "time"

type MovementType string

const (
	MovementEntree MovementType = "entree"
	MovementSortie MovementType = "sortie"
)

// StockLevel is the current quantity of a product held at a depot.
type StockLevel struct {
	DepotCode string `json:"depotCode"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockMovement is one recorded entry or exit. Sales produce sortie movements
// referencing the facture they came from.
type StockMovement struct {
	ID        string       `json:"id"`
	DepotCode string       `json:"depotCode"`
	ProductID string       `json:"productId"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reference string       `json:"reference"`
	CreatedAt time.Time    `json:"createdAt"`
}
