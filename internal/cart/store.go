package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lsnsvra/UPB-Pedia/internal/domain"
	"github.com/lsnsvra/UPB-Pedia/internal/session"
)

const cartKey = "cart"

// Store owns the product-id → quantity mapping inside one visitor's
// session. Every mutation reads the mapping, applies the change and writes
// it back as one unit; a failure before the final write leaves the stored
// cart untouched.
type Store struct {
	sessions session.Store
	log      *zap.Logger
}

func NewStore(sessions session.Store, log *zap.Logger) *Store {
	return &Store{
		sessions: sessions,
		log:      log,
	}
}

// Cart returns the current mapping. A missing or corrupted session value
// self-heals to an empty cart instead of erroring.
func (s *Store) Cart(ctx context.Context, sessionID string) domain.Cart {
	var cart domain.Cart
	err := s.sessions.Get(ctx, sessionID, cartKey, &cart)
	if err != nil && !errors.Is(err, session.ErrNoValue) {
		// Whatever is stored there is not a cart; reinitialize it.
		s.log.Warn("cart session value corrupted, reinitializing", zap.String("session_id", sessionID), zap.Error(err))
		cart = nil
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart
}

// AddItem adds quantity units of a product, summing with any existing
// entry. Quantities below 1 fall back to 1.
func (s *Store) AddItem(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	cart := s.Cart(ctx, sessionID)
	cart[productID] += quantity
	return s.sessions.Set(ctx, sessionID, cartKey, cart)
}

// SetQuantity sets a product's quantity exactly; zero or negative removes
// the entry.
func (s *Store) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	cart := s.Cart(ctx, sessionID)
	if quantity > 0 {
		cart[productID] = quantity
	} else {
		delete(cart, productID)
	}
	return s.sessions.Set(ctx, sessionID, cartKey, cart)
}

// RemoveItem drops a product from the cart. Removing an absent id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, sessionID, productID string) error {
	cart := s.Cart(ctx, sessionID)
	delete(cart, productID)
	return s.sessions.Set(ctx, sessionID, cartKey, cart)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID, cartKey)
}

// TotalItems sums all quantities. Empty and corrupted carts count as 0.
func (s *Store) TotalItems(ctx context.Context, sessionID string) int {
	total := 0
	for _, qty := range s.Cart(ctx, sessionID) {
		total += qty
	}
	return total
}
