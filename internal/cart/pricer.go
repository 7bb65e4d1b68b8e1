package cart

import (
	"context"
	"sort"
	"strconv"

	"github.com/lsnsvra/UPB-Pedia/internal/currency"
	"github.com/lsnsvra/UPB-Pedia/internal/domain"
)

// Catalog is the product lookup the pricer depends on. The concrete
// implementation is the catalog API client.
type Catalog interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// Pricer joins cart entries with live catalog records. It runs fresh on
// every cart view, checkout view and COD check, so catalog price changes
// show up immediately and nothing is cached.
type Pricer struct {
	catalog   Catalog
	converter *currency.Converter
}

func NewPricer(catalog Catalog, converter *currency.Converter) *Pricer {
	return &Pricer{
		catalog:   catalog,
		converter: converter,
	}
}

// Price turns the cart mapping into priced line items plus totals in both
// currencies. Products the catalog no longer knows are dropped silently
// and contribute nothing to the totals.
func (p *Pricer) Price(ctx context.Context, cart domain.Cart) ([]domain.PricedLineItem, float64, int64) {
	var (
		items []domain.PricedLineItem
		total float64
	)

	for productID, quantity := range cart {
		product, err := p.catalog.Product(ctx, productID)
		if err != nil {
			continue
		}

		subtotal := product.Price * float64(quantity)
		total += subtotal

		items = append(items, domain.PricedLineItem{
			ProductID:        productID,
			Title:            product.Title,
			Image:            product.Image,
			Quantity:         quantity,
			UnitPrice:        product.Price,
			UnitPriceDisplay: p.converter.Display(product.Price),
			Subtotal:         subtotal,
			SubtotalDisplay:  p.converter.Display(subtotal),
		})
	}

	// Map iteration order is random; keep the rendered order stable.
	sort.Slice(items, func(i, j int) bool {
		a, errA := strconv.Atoi(items[i].ProductID)
		b, errB := strconv.Atoi(items[j].ProductID)
		if errA == nil && errB == nil {
			return a < b
		}
		return items[i].ProductID < items[j].ProductID
	})

	return items, total, p.converter.Display(total)
}
