package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lsnsvra/UPB-Pedia/internal/domain"
	"github.com/lsnsvra/UPB-Pedia/internal/order"
	"github.com/lsnsvra/UPB-Pedia/internal/payment"
)

type checkoutData struct {
	Items        []domain.PricedLineItem
	Total        float64
	TotalDisplay int64
	Methods      []domain.PaymentMethod
	CODAvailable bool
	CODMax       int64
}

// CheckoutPage shows the priced cart, the payment methods and whether COD
// is still within its ceiling for the current total.
func (h *Handlers) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := SessionID(ctx)

	cartMapping := h.carts.Cart(ctx, sessionID)
	if len(cartMapping) == 0 {
		h.flashAndRedirect(w, r, "warning", "Your cart is empty", "/cart")
		return
	}

	items, total, totalDisplay := h.pricer.Price(ctx, cartMapping)

	cod, _ := h.methods.Method("cod")
	h.render.Render(w, http.StatusOK, "checkout.html", h.page(r, "Checkout", checkoutData{
		Items:        items,
		Total:        total,
		TotalDisplay: totalDisplay,
		Methods:      h.methods.Methods(),
		CODAvailable: h.methods.WithinLimit("cod", totalDisplay),
		CODMax:       cod.MaxAmount,
	}))
}

// CheckoutSubmit validates the form and creates a pending order, then sends
// the visitor to the payment page. Every validation failure flashes a
// message and returns to the checkout form with no order stored.
func (h *Handlers) CheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := SessionID(ctx)

	if err := r.ParseForm(); err != nil {
		h.flashAndRedirect(w, r, "error", "Error processing checkout", "/checkout")
		return
	}

	customer := domain.CustomerInfo{
		Name:    r.PostForm.Get("customer_name"),
		Phone:   r.PostForm.Get("customer_phone"),
		Email:   r.PostForm.Get("customer_email"),
		Address: r.PostForm.Get("shipping_address"),
	}
	methodID := r.PostForm.Get("payment_method")

	o, err := h.ledger.CreateOrder(ctx, sessionID, customer, methodID)
	if err != nil {
		h.flashAndRedirect(w, r, "error", checkoutErrorMessage(err), checkoutErrorTarget(err))
		return
	}

	http.Redirect(w, r, "/payment/"+o.ID, http.StatusSeeOther)
}

func checkoutErrorMessage(err error) string {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, order.ErrMissingFields):
		return "Please fill in all required fields"
	case errors.Is(err, payment.ErrUnknownMethod):
		return "Please select a valid payment method"
	case errors.Is(err, order.ErrCODLimitExceeded):
		return "Order total exceeds the COD maximum of Rp 5,000,000"
	default:
		return "Error processing checkout"
	}
}

func checkoutErrorTarget(err error) string {
	if errors.Is(err, order.ErrEmptyCart) {
		return "/cart"
	}
	return "/checkout"
}

type paymentData struct {
	Order  *domain.Order
	Method domain.PaymentMethod
}

// PaymentPage shows the pending order with payment instructions. Expired
// pending orders bounce back to checkout; the ledger keeps them around.
func (h *Handlers) PaymentPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "orderID")

	o, err := h.ledger.OrderForPayment(ctx, SessionID(ctx), orderID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderExpired):
			h.flashAndRedirect(w, r, "error", "Payment session expired", "/checkout")
		default:
			h.flashAndRedirect(w, r, "error", "Order not found", "/")
		}
		return
	}

	method, _ := h.methods.Method(o.PaymentMethod)
	h.render.Render(w, http.StatusOK, "payment.html", h.page(r, "Payment", paymentData{
		Order:  o,
		Method: method,
	}))
}

// CompletePayment is the JSON endpoint behind the "I have paid" button. It
// flips the order to paid and reports the generated transaction id.
func (h *Handlers) CompletePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "orderID")

	o, err := h.ledger.CompletePayment(ctx, SessionID(ctx), orderID)
	if err != nil {
		h.log.Warn("complete payment failed", zap.String("order_id", orderID), zap.Error(err))
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Order not found",
		})
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Payment completed successfully!",
		"order_id":       o.ID,
		"transaction_id": o.TransactionID,
	})
}

type orderStatusData struct {
	Order  *domain.Order
	Method domain.PaymentMethod
}

// OrderStatus renders one order, paid or pending.
func (h *Handlers) OrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "orderID")

	o, err := h.ledger.Order(ctx, SessionID(ctx), orderID)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Order not found", "/")
		return
	}

	method, _ := h.methods.Method(o.PaymentMethod)
	h.render.Render(w, http.StatusOK, "order_status.html", h.page(r, fmt.Sprintf("Order %s", o.ID), orderStatusData{
		Order:  o,
		Method: method,
	}))
}

// OrderHistory lists the session's orders, newest first.
func (h *Handlers) OrderHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders := h.ledger.Orders(ctx, SessionID(ctx))
	h.render.Render(w, http.StatusOK, "payment_history.html", h.page(r, "Order History", orders))
}
