package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lsnsvra/UPB-Pedia/internal/cart"
	"github.com/lsnsvra/UPB-Pedia/internal/catalog"
	"github.com/lsnsvra/UPB-Pedia/internal/currency"
	"github.com/lsnsvra/UPB-Pedia/internal/domain"
	"github.com/lsnsvra/UPB-Pedia/internal/order"
	"github.com/lsnsvra/UPB-Pedia/internal/payment"
	"github.com/lsnsvra/UPB-Pedia/internal/session"
)

// Handlers serves every page and JSON endpoint of the storefront. All
// session access goes through the injected stores; handlers themselves are
// stateless.
type Handlers struct {
	catalog   *catalog.Client
	carts     *cart.Store
	pricer    *cart.Pricer
	ledger    *order.Ledger
	methods   *payment.Registry
	converter *currency.Converter
	flashes   flashStore
	render    *Renderer
	log       *zap.Logger
}

func NewHandlers(
	catalogClient *catalog.Client,
	carts *cart.Store,
	pricer *cart.Pricer,
	ledger *order.Ledger,
	methods *payment.Registry,
	converter *currency.Converter,
	sessions session.Store,
	render *Renderer,
	log *zap.Logger,
) *Handlers {
	return &Handlers{
		catalog:   catalogClient,
		carts:     carts,
		pricer:    pricer,
		ledger:    ledger,
		methods:   methods,
		converter: converter,
		flashes:   flashStore{sessions: sessions},
		render:    render,
		log:       log,
	}
}

// page assembles the header data every template needs.
func (h *Handlers) page(r *http.Request, title string, data interface{}) Page {
	ctx := r.Context()
	sessionID := SessionID(ctx)
	return Page{
		Title:      title,
		Categories: h.catalog.Categories(ctx),
		CartCount:  h.carts.TotalItems(ctx, sessionID),
		Flashes:    h.flashes.Pop(ctx, sessionID),
		Data:       data,
	}
}

func (h *Handlers) flashAndRedirect(w http.ResponseWriter, r *http.Request, level, message, target string) {
	h.flashes.Add(r.Context(), SessionID(r.Context()), level, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type listingData struct {
	Products         []domain.ProductView
	SelectedCategory string
	SearchQuery      string
	SortKey          string
}

// Home renders the product listing with search, category filter and price
// sorting applied from query parameters.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products := h.catalog.Products(ctx)
	products = catalog.Search(products, r.URL.Query().Get("search"))
	selected := r.URL.Query().Get("category")
	products = catalog.FilterCategory(products, selected)
	sortKey := r.URL.Query().Get("sort")
	catalog.SortByPrice(products, sortKey)

	h.render.Render(w, http.StatusOK, "index.html", h.page(r, "UPB-Pedia", listingData{
		Products:         h.productViews(products),
		SelectedCategory: selected,
		SearchQuery:      r.URL.Query().Get("search"),
		SortKey:          sortKey,
	}))
}

// Category renders one category's products via the catalog's category
// endpoint.
func (h *Handlers) Category(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	products := h.catalog.ProductsByCategory(r.Context(), name)

	h.render.Render(w, http.StatusOK, "index.html", h.page(r, name, listingData{
		Products:         h.productViews(products),
		SelectedCategory: name,
	}))
}

// ProductDetail renders one product with its price in both currencies.
func (h *Handlers) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Product not found", "/")
		return
	}

	h.render.Render(w, http.StatusOK, "detail.html", h.page(r, product.Title, domain.ProductView{
		Product:      *product,
		PriceDisplay: h.converter.Display(product.Price),
	}))
}

// AddToCart adds a product with the posted quantity (default 1) and sends
// the visitor back where they came from.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "id")

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		quantity = 1
	}

	if err := h.carts.AddItem(ctx, SessionID(ctx), productID, quantity); err != nil {
		h.log.Error("add to cart failed", zap.String("product_id", productID), zap.Error(err))
		h.flashAndRedirect(w, r, "error", "Error adding product to cart", "/")
		return
	}

	target := r.Referer()
	if target == "" {
		target = "/"
	}
	h.flashAndRedirect(w, r, "success", "Product added to cart", target)
}

type cartData struct {
	Items        []domain.PricedLineItem
	Total        float64
	TotalDisplay int64
}

// CartPage prices the live cart and renders it.
func (h *Handlers) CartPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := SessionID(ctx)

	items, total, totalDisplay := h.pricer.Price(ctx, h.carts.Cart(ctx, sessionID))
	h.render.Render(w, http.StatusOK, "cart.html", h.page(r, "Your Cart", cartData{
		Items:        items,
		Total:        total,
		TotalDisplay: totalDisplay,
	}))
}

// UpdateCart applies the cart form: an optional "remove" field plus one
// "quantity_<id>" field per line. Zero or negative quantities remove the
// line.
func (h *Handlers) UpdateCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := SessionID(ctx)

	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "Error updating cart", "/cart")
		return
	}

	if removeID := r.PostForm.Get("remove"); removeID != "" {
		if err := h.carts.RemoveItem(ctx, sessionID, removeID); err != nil {
			h.log.Error("remove cart item failed", zap.Error(err))
			h.flashAndRedirect(w, r, "error", "Error updating cart", "/cart")
			return
		}
		h.flashAndRedirect(w, r, "info", "Item removed from cart", "/cart")
		return
	}

	for productID := range h.carts.Cart(ctx, sessionID) {
		raw := r.PostForm.Get("quantity_" + productID)
		if raw == "" {
			continue
		}
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if err := h.carts.SetQuantity(ctx, sessionID, productID, quantity); err != nil {
			h.log.Error("set cart quantity failed", zap.String("product_id", productID), zap.Error(err))
		}
	}

	h.flashAndRedirect(w, r, "success", "Cart updated", "/cart")
}

// ClearCart empties the cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.carts.Clear(ctx, SessionID(ctx)); err != nil {
		h.log.Error("clear cart failed", zap.Error(err))
		h.flashAndRedirect(w, r, "error", "Error clearing cart", "/cart")
		return
	}
	h.flashAndRedirect(w, r, "info", "Cart cleared", "/cart")
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusNotFound, "404.html", h.page(r, "Not Found", nil))
}

func (h *Handlers) productViews(products []domain.Product) []domain.ProductView {
	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, domain.ProductView{
			Product:      p,
			PriceDisplay: h.converter.Display(p.Price),
		})
	}
	return views
}
