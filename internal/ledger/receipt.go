package ledger

import "github.com/mkaleng/restopos/internal/domain"

// Organization header printed on every receipt.
type Organization struct {
	Name    string
	Address string
	Phone   string
}

// BuildReceipt projects the cart and its already-computed totals into a
// print-oriented document. It performs no monetary arithmetic of its own, so
// what is printed can never diverge from what was billed.
func BuildReceipt(cart *Cart, totals Totals, org Organization, operator string) domain.ReceiptDocument {
	doc := domain.ReceiptDocument{
		Organization: org.Name,
		Address:      org.Address,
		Phone:        org.Phone,
		Operator:     operator,
		Total:        totals.FinalTotalCDF,
		NetTotal:     totals.FinalTotalUSD,
	}
	if cart.Table != nil {
		doc.TableName = cart.Table.Name
	}

	doc.Lines = make([]domain.ReceiptLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		doc.Lines = append(doc.Lines, domain.ReceiptLine{
			ProductName: line.Name,
			Price:       line.UnitPrice,
			Qte:         line.Quantity,
			Total:       line.LineTotal,
		})
	}

	return doc
}
