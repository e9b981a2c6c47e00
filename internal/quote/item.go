package quote

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in a session's quotation request. Quantity
// never drops below 1 inside the collection; an item that would reach 0 is
// removed instead.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     *string         `json:"image"`
	Category  *string         `json:"category"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func cloneItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return []LineItem{}
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
