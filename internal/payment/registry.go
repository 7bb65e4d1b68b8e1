package payment

import (
	"errors"

	"github.com/lsnsvra/UPB-Pedia/internal/domain"
)

var ErrUnknownMethod = errors.New("unknown payment method")

// Registry is the static set of payment methods. Immutable for the process
// lifetime; fees and the COD ceiling are in the display currency.
type Registry struct {
	methods map[string]domain.PaymentMethod
	order   []string
}

// NewRegistry builds the default method set of the storefront.
func NewRegistry() *Registry {
	return newRegistry(
		domain.PaymentMethod{
			ID:          "qris",
			Name:        "QRIS (QR Code Indonesian Standard)",
			Description: "Scan QR code with any e-wallet or bank app",
			Icon:        "fas fa-qrcode",
		},
		domain.PaymentMethod{
			ID:          "dana",
			Name:        "Dana E-Wallet",
			Description: "Instant payment via Dana app",
			Icon:        "fas fa-wallet",
		},
		domain.PaymentMethod{
			ID:          "ovo",
			Name:        "OVO E-Wallet",
			Description: "Pay via OVO app or QR",
			Icon:        "fas fa-mobile-alt",
		},
		domain.PaymentMethod{
			ID:          "bank_transfer",
			Name:        "Bank Transfer",
			Description: "Manual transfer to bank account",
			Icon:        "fas fa-university",
		},
		domain.PaymentMethod{
			ID:          "debit_card",
			Name:        "Debit Card",
			Description: "Visa/Mastercard debit card",
			Icon:        "fas fa-credit-card",
		},
		domain.PaymentMethod{
			ID:          "cod",
			Name:        "Cash on Delivery (COD)",
			Description: "Pay cash when item arrives",
			Icon:        "fas fa-money-bill-wave",
			Fee:         15000,
			MaxAmount:   5000000,
		},
	)
}

func newRegistry(methods ...domain.PaymentMethod) *Registry {
	r := &Registry{methods: make(map[string]domain.PaymentMethod, len(methods))}
	for _, m := range methods {
		r.methods[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	return r
}

// Method looks up a payment method by id.
func (r *Registry) Method(id string) (domain.PaymentMethod, error) {
	m, ok := r.methods[id]
	if !ok {
		return domain.PaymentMethod{}, ErrUnknownMethod
	}
	return m, nil
}

// Methods returns every method in registration order, for the checkout form.
func (r *Registry) Methods() []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.methods[id])
	}
	return out
}

// WithinLimit reports whether a display-currency total is acceptable for
// the method. Only methods with a configured ceiling (COD) can refuse.
func (r *Registry) WithinLimit(id string, totalDisplay int64) bool {
	m, ok := r.methods[id]
	if !ok {
		return false
	}
	return m.MaxAmount == 0 || totalDisplay <= m.MaxAmount
}
