package domain

// PaymentMethod describes one way to pay. Fee and MaxAmount are in the
// display currency; MaxAmount == 0 means the method has no ceiling.
type PaymentMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Fee         int64  `json:"fee"`
	MaxAmount   int64  `json:"max_amount,omitempty"`
}
