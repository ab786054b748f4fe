package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/cinemood/internal/logging"
)

// defaultDialTimeout bounds the broker dial when ctx carries no deadline.
const defaultDialTimeout = 2 * time.Second

// Publisher sends events to RabbitMQ.  Each publish dials its own
// connection, so a broker outage never poisons shared state; errors are
// logged and returned and callers are free to ignore them.
type Publisher struct {
    url string
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
    return &Publisher{url: url}
}

// PublishEmotionsUpdated publishes ev on the emotions.updated queue.
func (p *Publisher) PublishEmotionsUpdated(ctx context.Context, ev EmotionsUpdatedEvent) error {
    return p.publish(ctx, EmotionsUpdatedQueue, ev.EventID, ev)
}

// PublishFavoriteToggled publishes ev on the favorite.toggled queue.
func (p *Publisher) PublishFavoriteToggled(ctx context.Context, ev FavoriteToggledEvent) error {
    return p.publish(ctx, FavoriteToggledQueue, ev.EventID, ev)
}

func (p *Publisher) publish(ctx context.Context, queue, messageID string, event any) error {
    log := logging.With().Str("component", "publisher").Str("queue", queue).Logger()

    if err := ctx.Err(); err != nil {
        return err
    }
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(dialTimeout(ctx)),
    })
    if err != nil {
        log.Warn().Err(err).Msg("dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Warn().Err(err).Msg("channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        log.Warn().Err(err).Msg("queue declare failed")
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Warn().Err(err).Msg("marshal event failed")
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
        log.Warn().Err(err).Msg("publish failed")
        return err
    }
    return nil
}

// dialTimeout is the time left before ctx expires, capped at
// defaultDialTimeout.
func dialTimeout(ctx context.Context) time.Duration {
    d := defaultDialTimeout
    if deadline, ok := ctx.Deadline(); ok {
        if left := time.Until(deadline); left < d {
            d = left
        }
    }
    if d <= 0 {
        d = time.Millisecond
    }
    return d
}
