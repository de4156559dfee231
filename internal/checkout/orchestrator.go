// Package checkout drives the order flow: validate locally, fetch the active
// cart, create the order, hand off to payment. Every local precondition is
// checked before the first backend call so a doomed checkout costs nothing.
package checkout

import (
	"context"
	"log/slog"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/event"
	"github.com/cartedge/coursecart/internal/gateway"
	"github.com/cartedge/coursecart/internal/identity"
	apperrors "github.com/cartedge/coursecart/pkg/errors"
	"github.com/cartedge/coursecart/pkg/validator"
)

// CartReader supplies the active cart; satisfied by the reconciler.
type CartReader interface {
	ActiveCart(ctx context.Context, sess identity.Session) (*domain.Cart, error)
}

// OrderGateway drives order creation and payment hand-off on the backend.
type OrderGateway interface {
	CreateOrder(ctx context.Context, sess identity.Session, profile domain.CheckoutProfile) (*gateway.OrderResult, error)
	InitiatePayment(ctx context.Context, sess identity.Session, orderID string) (*gateway.PaymentResult, error)
}

// Orchestrator coordinates the checkout sequence.
type Orchestrator struct {
	carts  CartReader
	orders OrderGateway
	events event.Publisher
	logger *slog.Logger
}

// New creates a checkout orchestrator.
func New(carts CartReader, orders OrderGateway, events event.Publisher, logger *slog.Logger) *Orchestrator {
	if events == nil {
		events = event.NopPublisher{}
	}
	return &Orchestrator{
		carts:  carts,
		orders: orders,
		events: events,
		logger: logger,
	}
}

// Checkout runs the full pre-flight and creates the order.
//
// Order of checks, all before any network call:
//  1. a guest identity is turned away with a typed unauthorized error, which
//     the handler layer renders as the sign-in redirect;
//  2. an incomplete profile fails with the missing fields listed;
//  3. then the active cart is fetched and zero items are rejected.
//
// Only after all three does the order request go out. A backend rejection
// carries the backend's message through word for word.
func (o *Orchestrator) Checkout(ctx context.Context, sess identity.Session, profile domain.CheckoutProfile) (*gateway.OrderResult, error) {
	if !sess.Authenticated() {
		return nil, apperrors.Unauthorized("checkout requires a signed-in account")
	}

	if err := validator.Validate(profile); err != nil {
		return nil, apperrors.ProfileIncomplete(err.Error())
	}

	cart, err := o.carts.ActiveCart(ctx, sess)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.EmptyCart()
	}

	o.events.CheckoutStarted(ctx, event.CheckoutStartedData{
		DeviceID:  sess.DeviceID,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	})

	result, err := o.orders.CreateOrder(ctx, sess, profile)
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "order created",
		slog.String("order_id", result.OrderID),
		slog.Int64("total_price", result.TotalPrice),
	)

	o.events.OrderCreated(ctx, event.OrderCreatedData{
		DeviceID:   sess.DeviceID,
		OrderID:    result.OrderID,
		TotalPrice: result.TotalPrice,
	})

	return result, nil
}

// InitiatePayment hands a created order to the payment flow. The order id is
// the only thing that crosses; cart contents and profile stay behind.
func (o *Orchestrator) InitiatePayment(ctx context.Context, sess identity.Session, orderID string) (*gateway.PaymentResult, error) {
	if !sess.Authenticated() {
		return nil, apperrors.Unauthorized("payment requires a signed-in account")
	}
	if orderID == "" {
		return nil, apperrors.InvalidInput("order_id is required")
	}

	result, err := o.orders.InitiatePayment(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}

	o.events.PaymentInitiated(ctx, event.PaymentInitiatedData{
		DeviceID: sess.DeviceID,
		OrderID:  orderID,
	})

	return result, nil
}
