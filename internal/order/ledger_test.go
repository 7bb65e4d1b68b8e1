package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lsnsvra/UPB-Pedia/internal/cart"
	"github.com/lsnsvra/UPB-Pedia/internal/catalog"
	"github.com/lsnsvra/UPB-Pedia/internal/currency"
	"github.com/lsnsvra/UPB-Pedia/internal/domain"
	"github.com/lsnsvra/UPB-Pedia/internal/payment"
	"github.com/lsnsvra/UPB-Pedia/internal/session"
)

const testSession = "visitor-1"

var testCustomer = domain.CustomerInfo{
	Name:    "Budi Santoso",
	Phone:   "0812-3456-7890",
	Email:   "budi@example.com",
	Address: "Jl. Merdeka 1, Jakarta",
}

type mockCatalog struct {
	products map[string]domain.Product
}

func (m *mockCatalog) Product(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

type fixture struct {
	ledger *Ledger
	carts  *cart.Store
	now    time.Time
}

func newFixture(t *testing.T, products map[string]domain.Product) *fixture {
	t.Helper()

	sessions := session.NewMemoryStore(time.Hour)
	t.Cleanup(sessions.Close)

	converter := currency.New(15500)
	carts := cart.NewStore(sessions, zap.NewNop())
	pricer := cart.NewPricer(&mockCatalog{products: products}, converter)
	ledger := NewLedger(sessions, carts, pricer, payment.NewRegistry(), converter, time.Hour, 0, zap.NewNop())

	f := &fixture{
		ledger: ledger,
		carts:  carts,
		now:    time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
	}
	ledger.now = func() time.Time { return f.now }
	return f
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "cod")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-20240131-[0-9A-F]{8}$`), o.ID)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, f.now, o.CreatedAt)
	assert.Equal(t, f.now.Add(time.Hour), o.ExpiresAt)
	assert.Nil(t, o.PaidAt)
	assert.Empty(t, o.TransactionID)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "Backpack", o.Items[0].Title)
	assert.Equal(t, 10.0, o.Total)
	assert.Equal(t, int64(155000), o.TotalDisplay)
	assert.Equal(t, int64(15000), o.PaymentFee)
	assert.Equal(t, int64(170000), o.TotalWithFeeDisplay)

	stored, err := f.ledger.Order(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
}

func TestCreateOrder_FeeFreeMethod(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)
	assert.Equal(t, int64(0), o.PaymentFee)
	assert.Equal(t, int64(155000), o.TotalWithFeeDisplay)
	assert.Equal(t, o.Total, o.TotalWithFee)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.ledger.CreateOrder(context.Background(), testSession, testCustomer, "qris")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.ledger.Orders(context.Background(), testSession))
}

func TestCreateOrder_BlankFieldsRejected(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*domain.CustomerInfo, *string)
		expected error
	}{
		{"blank name", func(c *domain.CustomerInfo, _ *string) { c.Name = "   " }, ErrMissingFields},
		{"blank phone", func(c *domain.CustomerInfo, _ *string) { c.Phone = "" }, ErrMissingFields},
		{"blank address", func(c *domain.CustomerInfo, _ *string) { c.Address = "\t\n" }, ErrMissingFields},
		{"blank method", func(_ *domain.CustomerInfo, m *string) { *m = "  " }, ErrMissingFields},
		{"unknown method", func(_ *domain.CustomerInfo, m *string) { *m = "paypal" }, payment.ErrUnknownMethod},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, map[string]domain.Product{
				"1": {ID: 1, Title: "Backpack", Price: 10.0},
			})
			ctx := context.Background()
			require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

			customer := testCustomer
			methodID := "qris"
			tc.mutate(&customer, &methodID)

			_, err := f.ledger.CreateOrder(ctx, testSession, customer, methodID)
			assert.ErrorIs(t, err, tc.expected)
			assert.Empty(t, f.ledger.Orders(ctx, testSession), "no order may be persisted on validation failure")
		})
	}
}

func TestCreateOrder_EmailIsOptional(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	customer := testCustomer
	customer.Email = ""
	_, err := f.ledger.CreateOrder(ctx, testSession, customer, "qris")
	assert.NoError(t, err)
}

func TestCreateOrder_CODCeilingExceeded(t *testing.T) {
	// 400 USD at 15500 is 6,200,000 plus the 15,000 fee: over the
	// 5,000,000 COD maximum.
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Laptop", Price: 400.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	_, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "cod")
	assert.ErrorIs(t, err, ErrCODLimitExceeded)
	assert.Empty(t, f.ledger.Orders(ctx, testSession))
}

func TestCreateOrder_CODCeilingIsPostFee(t *testing.T) {
	// 322 USD is 4,991,000: under the ceiling on its own, over it once
	// the 15,000 fee is added.
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Phone", Price: 322.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	_, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "cod")
	assert.ErrorIs(t, err, ErrCODLimitExceeded)

	// The same order is fine with a fee-free method.
	_, err = f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	assert.NoError(t, err)
}

func TestCreateOrder_SnapshotSurvivesPriceChange(t *testing.T) {
	products := map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	}
	f := newFixture(t, products)
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 2))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)
	require.Equal(t, 20.0, o.Total)

	// Catalog price doubles after the order is placed.
	products["1"] = domain.Product{ID: 1, Title: "Backpack", Price: 20.0}

	stored, err := f.ledger.Order(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, stored.Total, "order totals are computed once at creation")
	assert.Equal(t, 10.0, stored.Items[0].UnitPrice)
}

func TestOrder_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.ledger.Order(context.Background(), testSession, "ORD-20240131-DEADBEEF")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderForPayment_Expired(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)

	// Two hours later the 1h payment window has closed.
	f.now = f.now.Add(2 * time.Hour)

	_, err = f.ledger.OrderForPayment(ctx, testSession, o.ID)
	assert.ErrorIs(t, err, ErrOrderExpired)

	// The order is not reaped; plain lookup still sees it pending.
	stored, err := f.ledger.Order(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestOrderForPayment_WithinWindow(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)

	f.now = f.now.Add(30 * time.Minute)

	got, err := f.ledger.OrderForPayment(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestCompletePayment_TransitionsToPaid(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)

	paidTime := f.now.Add(10 * time.Minute)
	f.now = paidTime

	paid, err := f.ledger.CompletePayment(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, paidTime, *paid.PaidAt)
	assert.Regexp(t, regexp.MustCompile(`^TXN-[0-9A-F]{12}$`), paid.TransactionID)

	// The successful payment path empties the live cart.
	assert.Equal(t, 0, f.carts.TotalItems(ctx, testSession))

	stored, err := f.ledger.Order(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, stored.Status)
}

func TestCompletePayment_Idempotent(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)

	first, err := f.ledger.CompletePayment(ctx, testSession, o.ID)
	require.NoError(t, err)

	// Repeating the call still succeeds and overwrites the transition
	// fields; completion never fails for business reasons.
	second, err := f.ledger.CompletePayment(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, second.Status)
	assert.NotEmpty(t, second.TransactionID)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestCompletePayment_UnknownOrder(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.ledger.CompletePayment(context.Background(), testSession, "ORD-20240131-DEADBEEF")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCompletePayment_IgnoresExpiry(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))

	o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
	require.NoError(t, err)

	f.now = f.now.Add(3 * time.Hour)

	paid, err := f.ledger.CompletePayment(ctx, testSession, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)
}

func TestOrders_NewestFirst(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))
		o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
		require.NoError(t, err)
		ids = append(ids, o.ID)
		f.now = f.now.Add(time.Minute)
	}

	orders := f.ledger.Orders(ctx, testSession)
	require.Len(t, orders, 3)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
	assert.Equal(t, ids[0], orders[2].ID)
}

func TestOrders_EqualTimesKeepInsertionOrder(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()

	// Creation timestamps carry minute-level precision in the original
	// design; two orders in the same minute tie.
	var ids []string
	for i := 0; i < 2; i++ {
		require.NoError(t, f.carts.AddItem(ctx, testSession, "1", 1))
		o, err := f.ledger.CreateOrder(ctx, testSession, testCustomer, "qris")
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	orders := f.ledger.Orders(ctx, testSession)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[0], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
}

func TestOrders_SessionsAreIsolated(t *testing.T) {
	f := newFixture(t, map[string]domain.Product{
		"1": {ID: 1, Title: "Backpack", Price: 10.0},
	})
	ctx := context.Background()
	require.NoError(t, f.carts.AddItem(ctx, "visitor-a", "1", 1))

	_, err := f.ledger.CreateOrder(ctx, "visitor-a", testCustomer, "qris")
	require.NoError(t, err)

	assert.Empty(t, f.ledger.Orders(ctx, "visitor-b"))
}
