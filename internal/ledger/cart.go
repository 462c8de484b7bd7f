package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mkaleng/restopos/internal/domain"
)

// LineItem is one product line in the active cart. BasePriceUSD is fixed when
// the line is added and never changes; UnitPrice and LineTotal are derived from
// it on every mutation so repeated currency toggles cannot accumulate rounding
// drift.
type LineItem struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	BasePriceUSD  decimal.Decimal `json:"basePriceUsd"`
	CurrencyIsUSD bool            `json:"currencyIsUsd"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

func (li *LineItem) recompute(rate decimal.Decimal) {
	if li.CurrencyIsUSD {
		li.UnitPrice = li.BasePriceUSD
	} else {
		li.UnitPrice = li.BasePriceUSD.Mul(rate)
	}
	li.LineTotal = li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the order aggregate for one POS session. It lives only in session
// memory: created empty when the session starts or a table is (re)selected,
// cleared on successful facture submission.
type Cart struct {
	Lines         []LineItem      `json:"lines"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	DiscountIsUSD bool            `json:"discountIsUsd"`
	AmountCDF     decimal.Decimal `json:"amountCdf"`
	AmountUSD     decimal.Decimal `json:"amountUsd"`
	AmountIsUSD   bool            `json:"amountIsUsd"`
	Table         *domain.Table   `json:"table,omitempty"`
	Client        string          `json:"client"`
	Contact       string          `json:"contact"`
	Description   string          `json:"description"`
	TypePaiement  string          `json:"typePaiement"`
}

func NewCart(rate decimal.Decimal) *Cart {
	return &Cart{ExchangeRate: rate}
}

// AddLine appends a new line for the product: quantity 1, USD currency, base
// price copied from the catalog entry. A missing USD price falls back to the
// CDF price converted through the current rate; no price at all is coerced to
// zero. Always succeeds.
func (c *Cart) AddLine(product domain.Product) *LineItem {
	base := product.PriceUSD
	if base.IsZero() && !product.PriceCDF.IsZero() && c.ExchangeRate.IsPositive() {
		base = product.PriceCDF.Div(c.ExchangeRate)
	}
	if base.IsNegative() {
		base = decimal.Zero
	}

	line := LineItem{
		ProductID:     product.ID,
		Name:          product.ProductName,
		Quantity:      1,
		BasePriceUSD:  base,
		CurrencyIsUSD: true,
	}
	line.recompute(c.ExchangeRate)
	c.Lines = append(c.Lines, line)
	return &c.Lines[len(c.Lines)-1]
}

// AdjustQuantity applies a +1/-1 delta to the line's quantity. A decrement
// that would drop the quantity below 1 is silently ignored.
func (c *Cart) AdjustQuantity(index, delta int) error {
	if index < 0 || index >= len(c.Lines) {
		return domain.Validationf("no line at index %d", index)
	}
	if delta != 1 && delta != -1 {
		return domain.Validationf("quantity delta must be +1 or -1, got %d", delta)
	}

	line := &c.Lines[index]
	if line.Quantity+delta < 1 {
		return nil
	}
	line.Quantity += delta
	line.recompute(c.ExchangeRate)
	return nil
}

// ToggleCurrency flips the line's currency flag and recomputes its prices from
// the immutable USD base, never from the previously displayed price.
func (c *Cart) ToggleCurrency(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return domain.Validationf("no line at index %d", index)
	}
	line := &c.Lines[index]
	line.CurrencyIsUSD = !line.CurrencyIsUSD
	line.recompute(c.ExchangeRate)
	return nil
}

// RemoveLine drops the line. Other lines keep their totals.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return domain.Validationf("no line at index %d", index)
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return nil
}

// SetExchangeRate replaces the shared rate and refreshes every line's derived
// prices.
func (c *Cart) SetExchangeRate(rate decimal.Decimal) {
	c.ExchangeRate = rate
	for i := range c.Lines {
		c.Lines[i].recompute(rate)
	}
}

// SetDiscount records the operator-entered discount. Negative input is
// rejected; clamping against the bucket subtotal happens in ComputeTotals.
func (c *Cart) SetDiscount(value decimal.Decimal, isUSD bool) error {
	if value.IsNegative() {
		return domain.Validationf("discount cannot be negative")
	}
	c.DiscountValue = value
	c.DiscountIsUSD = isUSD
	return nil
}

// SetAmountTendered stores the tendered amount in the active currency and
// forces the inactive field to zero. Exactly one of AmountCDF/AmountUSD is
// ever non-zero.
func (c *Cart) SetAmountTendered(value decimal.Decimal, isUSD bool) error {
	if value.IsNegative() {
		return domain.Validationf("tendered amount cannot be negative")
	}
	c.AmountIsUSD = isUSD
	if isUSD {
		c.AmountUSD = value
		c.AmountCDF = decimal.Zero
	} else {
		c.AmountCDF = value
		c.AmountUSD = decimal.Zero
	}
	return nil
}

// Clear empties the cart while keeping the table and rate, ready for the next
// order on the same table.
func (c *Cart) Clear() {
	c.Lines = nil
	c.DiscountValue = decimal.Zero
	c.DiscountIsUSD = false
	c.AmountCDF = decimal.Zero
	c.AmountUSD = decimal.Zero
	c.AmountIsUSD = false
	c.Client = ""
	c.Contact = ""
	c.Description = ""
	c.TypePaiement = ""
}

// Totals returns the currency-split totals for the current cart state.
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.Lines, c.ExchangeRate, c.DiscountValue, c.DiscountIsUSD)
}
