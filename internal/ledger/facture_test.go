package ledger

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mkaleng/restopos/internal/domain"
)

func checkoutCart() *Cart {
	cart := NewCart(dec("2000"))
	cart.Table = &domain.Table{ID: "t1", Name: "Table 1"}
	cart.AddLine(usdProduct("p1", "Poulet", "10"))
	cart.AddLine(usdProduct("p2", "Jus", "3"))
	cart.ToggleCurrency(1)
	cart.TypePaiement = "cash"
	return cart
}

func TestBuildFactureRequest(t *testing.T) {
	t.Run("builds one vente per line with one-sided prices", func(t *testing.T) {
		cart := checkoutCart()

		req, err := BuildFactureRequest(cart, "user-7", "DEP-KIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(req.Ventes) != 2 {
			t.Fatalf("expected 2 ventes, got %d", len(req.Ventes))
		}

		for i, vente := range req.Ventes {
			usdSet := !vente.PriceUSD.IsZero()
			cdfSet := !vente.PriceCDF.IsZero()
			if usdSet == cdfSet {
				t.Errorf("vente %d: exactly one of priceUsd/priceCdf must be non-zero (usd=%s cdf=%s)", i, vente.PriceUSD, vente.PriceCDF)
			}
			if vente.DepotCode != "DEP-KIN" {
				t.Errorf("vente %d: expected depot DEP-KIN, got %s", i, vente.DepotCode)
			}
			if !vente.Taux.Equal(dec("2000")) {
				t.Errorf("vente %d: expected taux 2000, got %s", i, vente.Taux)
			}
		}

		if !req.Ventes[0].PriceUSD.Equal(dec("10")) {
			t.Errorf("USD line: expected priceUsd 10, got %s", req.Ventes[0].PriceUSD)
		}
		if !req.Ventes[1].PriceCDF.Equal(dec("6000")) {
			t.Errorf("CDF line: expected priceCdf 6000, got %s", req.Ventes[1].PriceCDF)
		}
	})

	t.Run("fails without a table", func(t *testing.T) {
		cart := checkoutCart()
		cart.Table = nil

		_, err := BuildFactureRequest(cart, "user-7", "DEP-KIN")

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("fails without an operator", func(t *testing.T) {
		cart := checkoutCart()

		var verr *domain.ValidationError
		if _, err := BuildFactureRequest(cart, "", "DEP-KIN"); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("fails without a depot code", func(t *testing.T) {
		cart := checkoutCart()

		var verr *domain.ValidationError
		if _, err := BuildFactureRequest(cart, "user-7", ""); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("fails when a line has no product id", func(t *testing.T) {
		cart := checkoutCart()
		cart.Lines[0].ProductID = ""

		var verr *domain.ValidationError
		if _, err := BuildFactureRequest(cart, "user-7", "DEP-KIN"); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("fails on an empty cart", func(t *testing.T) {
		cart := NewCart(dec("2000"))
		cart.Table = &domain.Table{ID: "t1"}

		var verr *domain.ValidationError
		if _, err := BuildFactureRequest(cart, "user-7", "DEP-KIN"); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("one-sided discount and tendered amounts", func(t *testing.T) {
		cart := checkoutCart()
		cart.SetDiscount(dec("2"), true)
		cart.SetAmountTendered(dec("50000"), false)

		req, err := BuildFactureRequest(cart, "user-7", "DEP-KIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !req.ReductionUSD.Equal(dec("2")) || !req.ReductionCDF.IsZero() {
			t.Errorf("expected reductionUsd 2 / reductionCdf 0, got %s / %s", req.ReductionUSD, req.ReductionCDF)
		}
		if !req.AmountCDF.Equal(dec("50000")) || !req.AmountUSD.IsZero() {
			t.Errorf("expected amountCdf 50000 / amountUsd 0, got %s / %s", req.AmountCDF, req.AmountUSD)
		}
	})

	t.Run("unset customer fields marshal as empty strings", func(t *testing.T) {
		cart := checkoutCart()

		req, err := BuildFactureRequest(cart, "user-7", "DEP-KIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(data), `"client":""`) {
			t.Errorf("expected empty client string in payload: %s", data)
		}
		if !strings.Contains(string(data), `"contact":""`) {
			t.Errorf("expected empty contact string in payload: %s", data)
		}
	})

	t.Run("payload keys keep the backend contract order", func(t *testing.T) {
		cart := checkoutCart()

		req, err := BuildFactureRequest(cart, "user-7", "DEP-KIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		keys := []string{"tableId", "userId", "reductionCdf", "reductionUsd", "amountCdf", "amountUsd", "client", "contact", "description", "status", "typePaiement", "ventes"}
		last := -1
		for _, key := range keys {
			idx := strings.Index(string(data), `"`+key+`"`)
			if idx < 0 {
				t.Fatalf("missing key %q in payload: %s", key, data)
			}
			if idx < last {
				t.Fatalf("key %q out of contract order in payload: %s", key, data)
			}
			last = idx
		}
	})
}
