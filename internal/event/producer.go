package event

import (
	"context"
	"log/slog"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/pkg/logger"

	pkgkafka "github.com/cartedge/coursecart/pkg/kafka"
)

// Kafka topics for booking cart and checkout events.
const (
	TopicCartUpdated      = "booking.cart.updated"
	TopicCartMerged       = "booking.cart.merged"
	TopicCartCleared      = "booking.cart.cleared"
	TopicCheckoutStarted  = "booking.checkout.started"
	TopicOrderCreated     = "booking.order.created"
	TopicPaymentInitiated = "booking.payment.initiated"
)

// Aggregate type constant.
const AggregateTypeCart = "cart"

// Source identifier for events originating from this service.
const SourceCourseCart = "coursecart"

// CartUpdatedData is the payload for cart.updated events.
type CartUpdatedData struct {
	DeviceID      string            `json:"device_id"`
	Authenticated bool              `json:"authenticated"`
	Items         []domain.CartItem `json:"items"`
	ItemCount     int               `json:"item_count"`
	Total         int64             `json:"total"`
}

// CartMergedData is the payload for cart.merged events.
type CartMergedData struct {
	DeviceID    string `json:"device_id"`
	MergedCount int    `json:"merged_count"`
}

// CartClearedData is the payload for cart.cleared events.
type CartClearedData struct {
	DeviceID      string `json:"device_id"`
	Authenticated bool   `json:"authenticated"`
}

// CheckoutStartedData is the payload for checkout.started events.
type CheckoutStartedData struct {
	DeviceID  string `json:"device_id"`
	ItemCount int    `json:"item_count"`
	Total     int64  `json:"total"`
}

// OrderCreatedData is the payload for order.created events.
type OrderCreatedData struct {
	DeviceID   string `json:"device_id"`
	OrderID    string `json:"order_id"`
	TotalPrice int64  `json:"total_price"`
}

// PaymentInitiatedData is the payload for payment.initiated events.
type PaymentInitiatedData struct {
	DeviceID string `json:"device_id"`
	OrderID  string `json:"order_id"`
}

// Publisher is what the service layer publishes through; satisfied by
// Producer and by test doubles.
type Publisher interface {
	CartUpdated(ctx context.Context, data CartUpdatedData)
	CartMerged(ctx context.Context, data CartMergedData)
	CartCleared(ctx context.Context, data CartClearedData)
	CheckoutStarted(ctx context.Context, data CheckoutStartedData)
	OrderCreated(ctx context.Context, data OrderCreatedData)
	PaymentInitiated(ctx context.Context, data PaymentInitiatedData)
}

// Producer publishes booking events to Kafka. Events are advisory; every
// publish failure is logged and swallowed so an analytics outage can never
// fail a cart operation.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) {
	ev, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeCart, SourceCourseCart, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		p.logger.WarnContext(ctx, "event publish failed, continuing",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}

// CartUpdated publishes a cart.updated event.
func (p *Producer) CartUpdated(ctx context.Context, data CartUpdatedData) {
	p.publish(ctx, TopicCartUpdated, data.DeviceID, data)
}

// CartMerged publishes a cart.merged event.
func (p *Producer) CartMerged(ctx context.Context, data CartMergedData) {
	p.publish(ctx, TopicCartMerged, data.DeviceID, data)
}

// CartCleared publishes a cart.cleared event.
func (p *Producer) CartCleared(ctx context.Context, data CartClearedData) {
	p.publish(ctx, TopicCartCleared, data.DeviceID, data)
}

// CheckoutStarted publishes a checkout.started event.
func (p *Producer) CheckoutStarted(ctx context.Context, data CheckoutStartedData) {
	p.publish(ctx, TopicCheckoutStarted, data.DeviceID, data)
}

// OrderCreated publishes an order.created event.
func (p *Producer) OrderCreated(ctx context.Context, data OrderCreatedData) {
	p.publish(ctx, TopicOrderCreated, data.DeviceID, data)
}

// PaymentInitiated publishes a payment.initiated event.
func (p *Producer) PaymentInitiated(ctx context.Context, data PaymentInitiatedData) {
	p.publish(ctx, TopicPaymentInitiated, data.DeviceID, data)
}

// NopPublisher discards all events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) CartUpdated(context.Context, CartUpdatedData)         {}
func (NopPublisher) CartMerged(context.Context, CartMergedData)           {}
func (NopPublisher) CartCleared(context.Context, CartClearedData)         {}
func (NopPublisher) CheckoutStarted(context.Context, CheckoutStartedData) {}
func (NopPublisher) OrderCreated(context.Context, OrderCreatedData)       {}
func (NopPublisher) PaymentInitiated(context.Context, PaymentInitiatedData) {}

var _ Publisher = (*Producer)(nil)
var _ Publisher = NopPublisher{}

// Topics lists every topic this service publishes to.
func Topics() []string {
	return []string{
		TopicCartUpdated,
		TopicCartMerged,
		TopicCartCleared,
		TopicCheckoutStarted,
		TopicOrderCreated,
		TopicPaymentInitiated,
	}
}
