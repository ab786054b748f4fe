package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/cinemood/internal/logging"
)

// ActivityLogFile is the file, under the consumer's directory, that
// receives one line per consumed event.
const ActivityLogFile = "activity.log"

// StartActivityConsumer consumes both event queues and appends a line per
// event to dir/activity.log.  It reconnects with exponential backoff and
// returns only when ctx is cancelled.
func StartActivityConsumer(ctx context.Context, url, dir string) error {
    log := logging.With().Str("component", "activity-consumer").Logger()

    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, dir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

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

type delivery struct {
    queue string
    amqp.Delivery
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logging.Warn().Err(err).Msg("activity-consumer: set QoS failed")
    }

    merged := make(chan delivery)
    done := make(chan struct{})
    defer close(done)
    for _, q := range []string{EmotionsUpdatedQueue, FavoriteToggledQueue} {
        if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", q, err)
        }
        msgs, err := ch.Consume(q, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", q, err)
        }
        go func(q string, msgs <-chan amqp.Delivery) {
            for d := range msgs {
                select {
                case merged <- delivery{queue: q, Delivery: d}:
                case <-done:
                    return
                }
            }
        }(q, msgs)
    }

    closed := conn.NotifyClose(make(chan *amqp.Error, 1))
    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case cerr := <-closed:
            if cerr == nil {
                return errors.New("connection closed")
            }
            return cerr
        case d := <-merged:
            if err := appendActivity(dir, d.queue, d.Body); err != nil {
                logging.Warn().Err(err).Str("queue", d.queue).Msg("activity-consumer: handle message failed")
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func appendActivity(dir, queue string, body []byte) error {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, ActivityLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    return writeActivity(f, queue, body)
}

// writeActivity renders one event as a single human-readable line.
func writeActivity(w io.Writer, queue string, body []byte) error {
    var line string
    switch queue {
    case EmotionsUpdatedQueue:
        var ev EmotionsUpdatedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = fmt.Sprintf("[%s] Emotions updated | event_id=%s | show_id=%s | show=%q | user_id=%s | emotions=[%s]\n",
            ev.UpdatedAt, ev.EventID, ev.ShowID, ev.ShowName, ev.UserID, strings.Join(ev.Emotions, ","))
    case FavoriteToggledQueue:
        var ev FavoriteToggledEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        action := "removed"
        if ev.Favorited {
            action = "added"
        }
        line = fmt.Sprintf("[%s] Favorite %s | event_id=%s | show_id=%s | user_id=%s\n",
            ev.ToggledAt, action, ev.EventID, ev.ShowID, ev.UserID)
    default:
        return fmt.Errorf("unknown queue %q", queue)
    }
    _, err := io.WriteString(w, line)
    return err
}
