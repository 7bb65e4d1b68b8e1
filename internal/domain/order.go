package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// CustomerInfo is the checkout contact block. Email is optional, everything
// else must be non-blank after trimming.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Order is an immutable snapshot of a priced cart plus customer input.
// Only Status, PaidAt and TransactionID change after creation, and only
// through the pending->paid transition.
type Order struct {
	ID            string           `json:"order_id"`
	CreatedAt     time.Time        `json:"created_at"`
	Items         []PricedLineItem `json:"items"`
	Customer      CustomerInfo     `json:"customer"`
	PaymentMethod string           `json:"payment_method"`

	Total               float64 `json:"total"`
	TotalDisplay        int64   `json:"total_idr"`
	PaymentFee          int64   `json:"payment_fee_idr"`
	TotalWithFee        float64 `json:"total_with_fee"`
	TotalWithFeeDisplay int64   `json:"total_with_fee_idr"`

	Status        OrderStatus `json:"status"`
	ExpiresAt     time.Time   `json:"expires_at"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty"`
}

// Expired reports whether the payment window has closed. Paid orders never
// expire; only a still-pending order past its deadline counts.
func (o *Order) Expired(now time.Time) bool {
	return o.Status == OrderStatusPending && now.After(o.ExpiresAt)
}
