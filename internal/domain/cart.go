package domain

// Cart is the per-visitor mapping of product id (string form) to quantity.
// Quantities are always >= 1; entries that would drop to zero or below are
// removed instead of stored.
type Cart map[string]int

// PricedLineItem is one cart entry joined with its catalog record.
// Recomputed on every read, never persisted.
type PricedLineItem struct {
	ProductID        string  `json:"product_id"`
	Title            string  `json:"title"`
	Image            string  `json:"image"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	UnitPriceDisplay int64   `json:"unit_price_idr"`
	Subtotal         float64 `json:"subtotal"`
	SubtotalDisplay  int64   `json:"subtotal_idr"`
}
