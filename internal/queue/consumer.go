package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Consumer listens to the gig queues and appends one line per affected
// customer (or per lineup change) to a notification log file.
type Consumer struct {
    url     string
    logPath string
    log     *zap.Logger
}

// NewConsumer returns a Consumer writing to logPath.
func NewConsumer(url, logPath string, log *zap.Logger) *Consumer {
    return &Consumer{url: url, logPath: logPath, log: log.Named("consumer")}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff when the connection drops.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn("dial failed, retrying", zap.Duration("backoff", backoff), zap.Error(err))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn("consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.Warn("set QoS failed", zap.Error(err))
    }

    var deliveries []<-chan amqp.Delivery
    for _, q := range []string{GigCancelledQueue, ActRemovedQueue} {
        if err := declare(ch, q); err != nil {
            return fmt.Errorf("queue declare %s: %w", q, err)
        }
        msgs, err := ch.Consume(q, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", q, err)
        }
        deliveries = append(deliveries, msgs)
    }

    cancelled, removed := deliveries[0], deliveries[1]
    for {
        var (
            d  amqp.Delivery
            ok bool
        )
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok = <-cancelled:
        case d, ok = <-removed:
        }
        if !ok {
            return errors.New("deliveries channel closed")
        }
        if err := c.handleMessage(d.RoutingKey, d.Body); err != nil {
            c.log.Error("handle message failed",
                zap.String("queue", d.RoutingKey), zap.String("message_id", d.MessageId), zap.Error(err))
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
}

func (c *Consumer) handleMessage(queue string, body []byte) error {
    var lines []string
    switch queue {
    case GigCancelledQueue:
        var ev GigCancelledEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        lines = cancelledLines(ev)
    case ActRemovedQueue:
        var ev ActRemovedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        lines = []string{actRemovedLine(ev)}
    default:
        return fmt.Errorf("unexpected queue %q", queue)
    }
    return appendLines(c.logPath, lines)
}

func cancelledLines(ev GigCancelledEvent) []string {
    head := fmt.Sprintf("[%s] Gig cancelled | gig_id=%d | act=%q | reason=%s", ev.OccurredAt, ev.GigID, ev.ActName, ev.Reason)
    if len(ev.Customers) == 0 {
        return []string{head + " | no ticket holders"}
    }
    out := make([]string, 0, len(ev.Customers))
    for _, cu := range ev.Customers {
        out = append(out, fmt.Sprintf("%s | notify %q <%s> | refund issued", head, cu.Name, cu.Email))
    }
    return out
}

func actRemovedLine(ev ActRemovedEvent) string {
    slots := make([]string, 0, len(ev.Lineup))
    for _, e := range ev.Lineup {
        slots = append(slots, fmt.Sprintf("%s %s-%s", e.ActName, e.Start, e.End))
    }
    return fmt.Sprintf("[%s] Act removed | gig_id=%d | act=%q | removed_minutes=%d | lineup=[%s]",
        ev.OccurredAt, ev.GigID, ev.ActName, ev.RemovedMinutes, strings.Join(slots, ", "))
}

func appendLines(path string, lines []string) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// sleep waits for d or until ctx is done; it reports false in the latter case.
func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
