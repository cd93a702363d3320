package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repository"
)

// memOrderRepo is an in-memory stand-in for the Postgres order log.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	seq    []string
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*models.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.OrderID] = &cp
	r.seq = append(r.seq, order.OrderID)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) GetAll(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Order, 0, len(r.seq))
	for _, id := range r.seq {
		out = append(out, *r.orders[id])
	}
	return out, nil
}

func (r *memOrderRepo) Cancel(_ context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Status == models.OrderStatusCancelled {
		return repository.ErrOrderCancelled
	}
	o.Status = models.OrderStatusCancelled
	o.CancellationReason = reason
	return nil
}

type recordingSMS struct {
	mu    sync.Mutex
	sent  []string
	notes []string
}

func (s *recordingSMS) Send(phoneNumber, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phoneNumber)
	s.notes = append(s.notes, message)
	return nil
}

func validAddress() models.Address {
	return models.Address{
		FullName: "Asha Rao",
		Mobile:   "9876543210",
		Pincode:  "560001",
		Address:  "12 MG Road",
		City:     "Bengaluru",
	}
}

func newTestService(t *testing.T, webhookURL string) (*Service, *cart.Manager, *memOrderRepo, *recordingSMS) {
	t.Helper()
	carts := cart.NewManager()
	orders := newMemOrderRepo()
	sms := &recordingSMS{}
	svc := NewService(carts, orders, notify.NewWebhook(webhookURL), sms)
	return svc, carts, orders, sms
}

func TestCheckoutProducesOrderAndClearsCart(t *testing.T) {
	svc, carts, orders, _ := newTestService(t, "")
	carts.AddItem("s1", models.CartItem{ProductID: 1, Name: "Pencil Pack", Price: "₹250", Quantity: 2})

	order, err := svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "cod")
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, "asha@example.com", order.Email)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, 500.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Shipping)
	assert.Equal(t, 500.0, order.Total)
	assert.WithinDuration(t, time.Now().UTC(), order.PlacedAt, time.Minute)

	assert.Empty(t, carts.Items("s1"), "cart must be emptied after checkout")

	logged, err := orders.GetByID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, logged.Items)
}

func TestCheckoutRequiresSignIn(t *testing.T) {
	svc, carts, _, _ := newTestService(t, "")
	carts.AddItem("s1", models.CartItem{ProductID: 1, Price: "₹100", Quantity: 1})

	_, err := svc.Checkout(context.Background(), "s1", "", validAddress(), "cod")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	// Cart state is untouched by the blocked transition.
	assert.Len(t, carts.Items("s1"), 1)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, _, _, _ := newTestService(t, "")

	_, err := svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "cod")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutValidatesAddressAndPayment(t *testing.T) {
	svc, carts, _, _ := newTestService(t, "")
	carts.AddItem("s1", models.CartItem{ProductID: 1, Price: "₹100", Quantity: 1})

	addr := validAddress()
	addr.Mobile = "12345" // not 10 digits
	_, err := svc.Checkout(context.Background(), "s1", "asha@example.com", addr, "cod")
	assert.Error(t, err)

	_, err = svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "card")
	assert.ErrorIs(t, err, ErrInvalidPayment)

	assert.Len(t, carts.Items("s1"), 1, "failed checkout must not consume the cart")
}

func TestCheckoutClearsCartDespiteWebhookFailure(t *testing.T) {
	// A webhook endpoint that always fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, carts, orders, _ := newTestService(t, srv.URL)
	carts.AddItem("s1", models.CartItem{ProductID: 1, Price: "₹250", Quantity: 2})

	order, err := svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "upi")
	require.NoError(t, err)
	assert.Empty(t, carts.Items("s1"))

	_, err = orders.GetByID(context.Background(), order.OrderID)
	assert.NoError(t, err, "order stays logged whatever the webhook does")
}

func TestCancelRejectsEmptyReason(t *testing.T) {
	svc, carts, orders, sms := newTestService(t, "")
	carts.AddItem("s1", models.CartItem{ProductID: 1, Price: "₹600", Quantity: 1})

	order, err := svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "cod")
	require.NoError(t, err)

	for _, reason := range []string{"", "   "} {
		_, err = svc.Cancel(context.Background(), order.OrderID, reason)
		assert.ErrorIs(t, err, ErrEmptyReason)
	}

	unchanged, err := orders.GetByID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPlaced, unchanged.Status)
	assert.Empty(t, unchanged.CancellationReason)
	assert.Empty(t, sms.sent)
}

func TestCancelSetsStatusAndPreservesFields(t *testing.T) {
	svc, carts, _, sms := newTestService(t, "")
	carts.AddItem("s1", models.CartItem{ProductID: 1, Name: "Board Game", Price: "₹750", Quantity: 1})

	placed, err := svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "cod")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), placed.OrderID, "out of stock")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "out of stock", cancelled.CancellationReason)

	// Everything else is untouched.
	assert.Equal(t, placed.OrderID, cancelled.OrderID)
	assert.Equal(t, placed.Email, cancelled.Email)
	assert.Equal(t, placed.Items, cancelled.Items)
	assert.Equal(t, placed.Address, cancelled.Address)
	assert.Equal(t, placed.PaymentMethod, cancelled.PaymentMethod)
	assert.Equal(t, placed.Total, cancelled.Total)
	assert.Equal(t, placed.PlacedAt, cancelled.PlacedAt)

	// The SMS is dispatched on a goroutine; give it a moment.
	require.Eventually(t, func() bool {
		sms.mu.Lock()
		defer sms.mu.Unlock()
		return len(sms.sent) == 1
	}, time.Second, 10*time.Millisecond)

	sms.mu.Lock()
	defer sms.mu.Unlock()
	assert.Equal(t, "9876543210", sms.sent[0])
	assert.True(t, strings.Contains(sms.notes[0], "out of stock"))
}

func TestCancelIsTerminal(t *testing.T) {
	svc, carts, _, _ := newTestService(t, "")
	carts.AddItem("s1", models.CartItem{ProductID: 1, Price: "₹600", Quantity: 1})

	order, err := svc.Checkout(context.Background(), "s1", "asha@example.com", validAddress(), "cod")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), order.OrderID, "first")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), order.OrderID, "second")
	assert.ErrorIs(t, err, repository.ErrOrderCancelled)
}

func TestCancelUnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestService(t, "")

	_, err := svc.Cancel(context.Background(), "no-such-order", "reason")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
