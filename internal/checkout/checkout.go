package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repository"
)

var (
	ErrNotSignedIn    = errors.New("checkout requires a signed-in user")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrEmptyReason    = errors.New("cancellation reason required")
	ErrInvalidPayment = errors.New("payment method must be cod or upi")
)

// Service drives a cart through checkout into an immutable order, and
// handles admin-side cancellation.
type Service struct {
	carts    *cart.Manager
	orders   repository.OrderRepository
	webhook  *notify.Webhook
	sms      notify.SMSSender
	validate *validator.Validate
}

func NewService(carts *cart.Manager, orders repository.OrderRepository, webhook *notify.Webhook, sms notify.SMSSender) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		webhook:  webhook,
		sms:      sms,
		validate: validator.New(),
	}
}

// Checkout materializes the session's cart into an order. The cart is
// cleared only after the order has been constructed and durably logged,
// so a webhook failure can never lose cart contents. The webhook POST
// itself is dispatched fire-and-forget: its outcome does not affect the
// result.
func (s *Service) Checkout(ctx context.Context, sessionID, email string, address models.Address, paymentMethod string) (*models.Order, error) {
	if email == "" {
		return nil, ErrNotSignedIn
	}

	items := s.carts.Items(sessionID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.validate.Struct(address); err != nil {
		return nil, fmt.Errorf("invalid delivery address: %w", err)
	}
	if paymentMethod != "cod" && paymentMethod != "upi" {
		return nil, ErrInvalidPayment
	}

	totals := cart.ComputeTotals(items)
	order := &models.Order{
		OrderID:       uuid.NewString(),
		Email:         email,
		Items:         items,
		Address:       address,
		PaymentMethod: paymentMethod,
		Subtotal:      totals.Subtotal,
		Shipping:      totals.Shipping,
		Total:         totals.Total,
		Status:        models.OrderStatusPlaced,
		PlacedAt:      time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to log order: %w", err)
	}

	s.webhook.Dispatch(order)
	s.carts.Clear(sessionID)

	return order, nil
}

// Cancel is admin-only and terminal. An empty reason is rejected before
// any state changes. The SMS to the shopper is best-effort; delivery
// failure is logged by the sender and otherwise ignored.
func (s *Service) Cancel(ctx context.Context, orderID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	if err := s.orders.Cancel(ctx, orderID, reason); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	notify.Dispatch(s.sms, order.Address.Mobile,
		fmt.Sprintf("Your order has been cancelled. Reason: %s", reason))

	return order, nil
}
