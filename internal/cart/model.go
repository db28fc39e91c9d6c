package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one line in a session's cart. Price is snapshotted at add time so
// mid-session price edits don't move the displayed total.
type Item struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image,omitempty"`
	MaxStock  int             `json:"max_stock"`
}

// Key addresses a line item by product and size, e.g. "42_M".
func Key(productID uint, size string) string {
	return fmt.Sprintf("%d_%s", productID, size)
}

type Totals struct {
	Count int             `json:"cart_count"`
	Total decimal.Decimal `json:"cart_total"`
}

func totalsOf(items map[string]Item) Totals {
	t := Totals{Total: decimal.Zero}
	for _, item := range items {
		t.Count += item.Quantity
		t.Total = t.Total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return t
}
