package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mkaleng/restopos/internal/domain"
)

// BuildFactureRequest maps the cart to the createFacture payload. It fails
// with a ValidationError when no table is selected, the operator id or depot
// code is missing, or any line lacks a product identifier. No collaborator is
// called here; validation happens before any network traffic.
func BuildFactureRequest(cart *Cart, userID, depotCode string) (*domain.FactureRequest, error) {
	if cart.Table == nil || cart.Table.ID == "" {
		return nil, domain.Validationf("no table selected")
	}
	if userID == "" {
		return nil, domain.Validationf("no operator resolved for this session")
	}
	if depotCode == "" {
		return nil, domain.Validationf("no depot code resolved for this session")
	}
	if len(cart.Lines) == 0 {
		return nil, domain.Validationf("cart is empty")
	}

	ventes := make([]domain.Vente, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.ProductID == "" {
			return nil, domain.Validationf("line %q has no product id", line.Name)
		}
		vente := domain.Vente{
			ProductID: line.ProductID,
			DepotCode: depotCode,
			Qte:       line.Quantity,
			Taux:      cart.ExchangeRate,
			PriceUSD:  decimal.Zero,
			PriceCDF:  decimal.Zero,
		}
		if line.CurrencyIsUSD {
			vente.PriceUSD = line.BasePriceUSD
		} else {
			vente.PriceCDF = line.BasePriceUSD.Mul(cart.ExchangeRate)
		}
		ventes = append(ventes, vente)
	}

	totals := cart.Totals()

	return &domain.FactureRequest{
		TableID:      cart.Table.ID,
		UserID:       userID,
		ReductionCDF: totals.ReductionCDF,
		ReductionUSD: totals.ReductionUSD,
		AmountCDF:    cart.AmountCDF,
		AmountUSD:    cart.AmountUSD,
		Client:       cart.Client,
		Contact:      cart.Contact,
		Description:  cart.Description,
		Status:       domain.FactureStatusRecorded,
		TypePaiement: cart.TypePaiement,
		Ventes:       ventes,
	}, nil
}
