package catalog

import (
	"sort"
	"strings"

	"github.com/lsnsvra/UPB-Pedia/internal/domain"
)

// Search keeps the products whose title contains the query,
// case-insensitively. An empty query keeps everything.
func Search(products []domain.Product, query string) []domain.Product {
	if query == "" {
		return products
	}
	q := strings.ToLower(query)
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterCategory keeps the products of one category. An empty category
// keeps everything.
func FilterCategory(products []domain.Product, category string) []domain.Product {
	if category == "" {
		return products
	}
	var out []domain.Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SortByPrice orders products by price. Supported keys are "price_asc" and
// "price_desc"; anything else leaves the order untouched.
func SortByPrice(products []domain.Product, key string) {
	switch key {
	case "price_asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price_desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	}
}
