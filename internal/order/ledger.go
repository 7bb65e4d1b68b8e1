package order

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lsnsvra/UPB-Pedia/internal/cart"
	"github.com/lsnsvra/UPB-Pedia/internal/currency"
	"github.com/lsnsvra/UPB-Pedia/internal/domain"
	"github.com/lsnsvra/UPB-Pedia/internal/payment"
	"github.com/lsnsvra/UPB-Pedia/internal/session"
)

const ordersKey = "orders"

// Ledger converts a priced cart into immutable Order records and drives the
// pending -> paid transition. Orders live in the visitor's session under a
// single key, appended in creation order; there are no other transitions
// (no cancel, no refund, no re-pending).
type Ledger struct {
	sessions  session.Store
	carts     *cart.Store
	pricer    *cart.Pricer
	methods   *payment.Registry
	converter *currency.Converter
	log       *zap.Logger

	ttl          time.Duration
	paymentDelay time.Duration
	now          func() time.Time
}

func NewLedger(
	sessions session.Store,
	carts *cart.Store,
	pricer *cart.Pricer,
	methods *payment.Registry,
	converter *currency.Converter,
	ttl time.Duration,
	paymentDelay time.Duration,
	log *zap.Logger,
) *Ledger {
	return &Ledger{
		sessions:     sessions,
		carts:        carts,
		pricer:       pricer,
		methods:      methods,
		converter:    converter,
		log:          log,
		ttl:          ttl,
		paymentDelay: paymentDelay,
		now:          time.Now,
	}
}

// CreateOrder validates the checkout input, snapshots the priced cart and
// persists a new pending order. Nothing is stored when validation fails.
func (l *Ledger) CreateOrder(ctx context.Context, sessionID string, customer domain.CustomerInfo, methodID string) (*domain.Order, error) {
	cartMapping := l.carts.Cart(ctx, sessionID)
	if len(cartMapping) == 0 {
		return nil, ErrEmptyCart
	}

	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.Email = strings.TrimSpace(customer.Email)
	customer.Address = strings.TrimSpace(customer.Address)
	methodID = strings.TrimSpace(methodID)

	if customer.Name == "" || customer.Phone == "" || customer.Address == "" || methodID == "" {
		return nil, ErrMissingFields
	}

	method, err := l.methods.Method(methodID)
	if err != nil {
		return nil, err
	}

	items, total, totalDisplay := l.pricer.Price(ctx, cartMapping)

	// Fee is configured in display units; totals carry it in both currencies.
	feeBase := l.converter.Base(method.Fee)
	totalWithFee := total + feeBase
	totalWithFeeDisplay := l.converter.Display(totalWithFee)

	// The COD ceiling applies to the post-fee total.
	if !l.methods.WithinLimit(methodID, totalWithFeeDisplay) {
		return nil, ErrCODLimitExceeded
	}

	createdAt := l.now()
	order := domain.Order{
		ID:                  newOrderID(createdAt),
		CreatedAt:           createdAt,
		Items:               items,
		Customer:            customer,
		PaymentMethod:       methodID,
		Total:               total,
		TotalDisplay:        totalDisplay,
		PaymentFee:          method.Fee,
		TotalWithFee:        totalWithFee,
		TotalWithFeeDisplay: totalWithFeeDisplay,
		Status:              domain.OrderStatusPending,
		ExpiresAt:           createdAt.Add(l.ttl),
	}

	orders := l.orders(ctx, sessionID)
	orders = append(orders, order)
	if err := l.sessions.Set(ctx, sessionID, ordersKey, orders); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	l.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("payment_method", methodID),
		zap.Int64("total_with_fee_idr", totalWithFeeDisplay))

	return &order, nil
}

// Order looks up one order by id.
func (l *Ledger) Order(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	for _, o := range l.orders(ctx, sessionID) {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// OrderForPayment is the lookup used by the payment page: a pending order
// past its expiry is reported as ErrOrderExpired so the caller can send the
// visitor back to checkout. The order itself stays in the ledger.
func (l *Ledger) OrderForPayment(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	o, err := l.Order(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Expired(l.now()) {
		return nil, ErrOrderExpired
	}
	return o, nil
}

// CompletePayment flips an order to paid, assigns a transaction id and
// clears the live cart. The only failure is an unknown order id: completion
// does not re-check expiry and overwriting an already-paid order succeeds.
func (l *Ledger) CompletePayment(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	orders := l.orders(ctx, sessionID)

	idx := -1
	for i := range orders {
		if orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrOrderNotFound
	}

	// Simulated payment processing.
	if l.paymentDelay > 0 {
		time.Sleep(l.paymentDelay)
	}

	paidAt := l.now()
	orders[idx].Status = domain.OrderStatusPaid
	orders[idx].PaidAt = &paidAt
	orders[idx].TransactionID = newTransactionID()

	if err := l.sessions.Set(ctx, sessionID, ordersKey, orders); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// Only the successful payment path empties the cart.
	if err := l.carts.Clear(ctx, sessionID); err != nil {
		l.log.Warn("clear cart after payment failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	l.log.Info("payment completed",
		zap.String("order_id", orderID),
		zap.String("transaction_id", orders[idx].TransactionID))

	paid := orders[idx]
	return &paid, nil
}

// Orders returns the session's orders, newest first. Equal creation times
// keep their insertion order.
func (l *Ledger) Orders(ctx context.Context, sessionID string) []domain.Order {
	orders := l.orders(ctx, sessionID)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (l *Ledger) orders(ctx context.Context, sessionID string) []domain.Order {
	var orders []domain.Order
	err := l.sessions.Get(ctx, sessionID, ordersKey, &orders)
	if err != nil && !errors.Is(err, session.ErrNoValue) {
		l.log.Warn("orders session value corrupted, reinitializing", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return orders
}

// newOrderID builds ids like ORD-20240131-1A2B3C4D: prefix, creation date,
// random suffix unique enough for one session's lifetime.
func newOrderID(createdAt time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("ORD-%s-%s", createdAt.Format("20060102"), strings.ToUpper(hex.EncodeToString(u[:4])))
}

func newTransactionID() string {
	u := uuid.New()
	return "TXN-" + strings.ToUpper(hex.EncodeToString(u[:6]))
}
