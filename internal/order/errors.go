package order

import "errors"

// Validation and lookup errors returned by the Ledger. The web layer maps
// each kind to a flash message and a redirect target.
var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to order")
	ErrMissingFields    = errors.New("required checkout fields are missing")
	ErrCODLimitExceeded = errors.New("order total exceeds the cash-on-delivery maximum")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderExpired     = errors.New("payment window for this order has expired")
)
