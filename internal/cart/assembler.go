package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one cart entry carrying the product snapshot taken when the
// item was first added. Later catalog edits do not flow into open carts.
type LineItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// AddItem merges the item into the cart: an existing line for the same
// product has its quantity incremented, otherwise a new line is appended.
func AddItem(items []LineItem, item LineItem, qty int) []LineItem {
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += qty
			return items
		}
	}
	item.Quantity = qty
	return append(items, item)
}

// UpdateQuantities replaces line quantities wholesale. Values are not
// validated, zero and negative quantities land in the cart as given, and
// products absent from the cart are ignored.
func UpdateQuantities(items []LineItem, quantities map[uuid.UUID]int) []LineItem {
	for i := range items {
		if qty, ok := quantities[items[i].ProductID]; ok {
			items[i].Quantity = qty
		}
	}
	return items
}

// RemoveItem drops the line for the product. Absent products are a no-op.
func RemoveItem(items []LineItem, productID uuid.UUID) []LineItem {
	for i := range items {
		if items[i].ProductID == productID {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}

// ComputeTotal sums quantity times unit price over all lines. An empty cart
// totals zero.
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		line := items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		total = total.Add(line)
	}
	return total
}

// ItemCount sums the quantities across all lines, the badge number shown
// next to the cart.
func ItemCount(items []LineItem) int {
	count := 0
	for i := range items {
		count += items[i].Quantity
	}
	return count
}
