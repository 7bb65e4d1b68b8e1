package domain

// Product is a single catalog record as served by the catalog API.
// Price is in the base currency (USD for the default catalog).
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// ProductView is a Product enriched with the display-currency price for
// template rendering.
type ProductView struct {
	Product
	PriceDisplay int64
}
