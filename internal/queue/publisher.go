package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Publisher sends gig events to RabbitMQ.  It dials per message, which
// is plenty for the cancellation rate of a scheduling desk.  Failures are
// logged and returned; callers treat publishing as best effort.
type Publisher struct {
    url string
    log *zap.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
    return &Publisher{url: url, log: log.Named("publisher")}
}

// PublishGigCancelled publishes ev to the gig.cancelled queue.
func (p *Publisher) PublishGigCancelled(ctx context.Context, ev GigCancelledEvent) error {
    return p.publish(ctx, GigCancelledQueue, ev.EventID, ev)
}

// PublishActRemoved publishes ev to the gig.act_removed queue.
func (p *Publisher) PublishActRemoved(ctx context.Context, ev ActRemovedEvent) error {
    return p.publish(ctx, ActRemovedQueue, ev.EventID, ev)
}

func (p *Publisher) publish(ctx context.Context, queue, messageID string, event any) error {
    body, err := json.Marshal(event)
    if err != nil {
        p.log.Error("marshal event failed", zap.String("queue", queue), zap.Error(err))
        return err
    }

    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.log.Warn("dial failed", zap.String("queue", queue), zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    if err := declare(ch, queue); err != nil {
        p.log.Warn("queue declare failed", zap.String("queue", queue), zap.Error(err))
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    messageID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
        p.log.Warn("publish failed", zap.String("queue", queue), zap.Error(err))
        return err
    }
    p.log.Debug("event published", zap.String("queue", queue), zap.String("message_id", messageID))
    return nil
}

// declare makes sure the durable queue exists.  Safe to repeat.
func declare(ch *amqp.Channel, queue string) error {
    _, err := ch.QueueDeclare(
        queue, // name
        true,  // durable
        false, // autoDelete
        false, // exclusive
        false, // noWait
        nil,   // args
    )
    return err
}
