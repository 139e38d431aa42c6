package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/restaurant-orders/internal/logger"
)

// defaultDialTimeout bounds connecting to the broker, handshake included.
const defaultDialTimeout = 2 * time.Second

// Publisher sends events to RabbitMQ.  Each publish dials, declares the
// queue and closes again; kitchen events are rare enough for that.  An empty
// URL disables publishing.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	log         *logger.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *logger.Logger) *Publisher {
	return &Publisher{url: url, dialTimeout: defaultDialTimeout, log: log.WithComponent("publisher")}
}

// PublishUnitReady publishes ev to UnitReadyQueue.  Errors are logged and
// returned so the caller can ignore them without interrupting the request.
func (p *Publisher) PublishUnitReady(ctx context.Context, ev UnitReadyEvent) error {
	return p.publish(ctx, UnitReadyQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, v any) error {
	if p == nil || p.url == "" {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		p.log.Error("marshal event failed", "error", err, "queue", queue)
		return err
	}

	conn, err := p.dial(ctx)
	if err != nil {
		p.log.Error("dial failed", "error", err, "queue", queue)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("channel open failed", "error", err, "queue", queue)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Error("queue declare failed", "error", err, "queue", queue)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.Error("publish failed", "error", err, "queue", queue)
		return err
	}
	return nil
}

// dial connects within dialTimeout or the time left on ctx, whichever is
// shorter.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
}
