package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// CartCount reports the cart badge number.
func (h *Handlers) CartCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   h.carts.TotalItems(ctx, SessionID(ctx)),
	})
}

// CODLimit reports whether the current cart total fits under the
// cash-on-delivery ceiling.
func (h *Handlers) CODLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := SessionID(ctx)

	cartMapping := h.carts.Cart(ctx, sessionID)
	if len(cartMapping) == 0 {
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"available": false,
			"message":   "Cart is empty",
		})
		return
	}

	_, _, totalDisplay := h.pricer.Price(ctx, cartMapping)
	cod, _ := h.methods.Method("cod")
	available := h.methods.WithinLimit("cod", totalDisplay)

	message := "COD available"
	if !available {
		message = fmt.Sprintf("COD maximum is %s", formatRupiah(cod.MaxAmount))
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"available": available,
		"total":     totalDisplay,
		"limit":     cod.MaxAmount,
		"message":   message,
	})
}

// Health is the liveness endpoint.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}
