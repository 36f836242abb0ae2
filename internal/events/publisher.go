package events

import (
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Order lifecycle event types published for downstream production systems.
const (
	OrderCreated       = "order.created"
	OrderApproved      = "order.approved"
	OrderRejected      = "order.rejected"
	OrderCanceled      = "order.canceled"
	OrderPaid          = "order.paid"
	OrderTrackingAdded = "order.tracking_added"
	OrderCompleted     = "order.completed"
)

// OrderEvent is the wire payload placed on the order-events queue.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	TrackingID string    `json:"trackingId"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers order events. Publishing is best-effort: callers log
// failures and carry on, the HTTP response never depends on the broker.
type Publisher interface {
	Publish(event OrderEvent) error
	Close() error
}

// AMQPPublisher publishes to a named queue over a shared connection, one
// channel per publish.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",      // exchange
		p.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(OrderEvent) error { return nil }
func (NoopPublisher) Close() error             { return nil }
