package queue

import (
    "bytes"
    "context"
    "encoding/json"
    "net"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestWriteActivityEmotions(t *testing.T) {
    ev := NewEmotionsUpdated("42", "Dark", "user_1", []string{"tense", "mysterious"})
    body, err := json.Marshal(ev)
    require.NoError(t, err)

    var buf bytes.Buffer
    require.NoError(t, writeActivity(&buf, EmotionsUpdatedQueue, body))
    line := buf.String()
    assert.Contains(t, line, "Emotions updated")
    assert.Contains(t, line, "show_id=42")
    assert.Contains(t, line, `show="Dark"`)
    assert.Contains(t, line, "emotions=[tense,mysterious]")
    assert.Contains(t, line, "event_id="+ev.EventID)
}

func TestWriteActivityFavorite(t *testing.T) {
    body, err := json.Marshal(NewFavoriteToggled("42", "user_1", false))
    require.NoError(t, err)

    var buf bytes.Buffer
    require.NoError(t, writeActivity(&buf, FavoriteToggledQueue, body))
    assert.Contains(t, buf.String(), "Favorite removed")
}

func TestWriteActivityRejects(t *testing.T) {
    var buf bytes.Buffer
    assert.Error(t, writeActivity(&buf, FavoriteToggledQueue, []byte("{")))
    assert.Error(t, writeActivity(&buf, "booking.confirmed", []byte("{}")))
    assert.Zero(t, buf.Len())
}

func TestAppendActivityCreatesFile(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    body, err := json.Marshal(NewFavoriteToggled("7", "user_9", true))
    require.NoError(t, err)

    require.NoError(t, appendActivity(dir, FavoriteToggledQueue, body))
    require.NoError(t, appendActivity(dir, FavoriteToggledQueue, body))

    data, err := os.ReadFile(filepath.Join(dir, ActivityLogFile))
    require.NoError(t, err)
    assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

func TestNewEventIDsAreUnique(t *testing.T) {
    a := NewFavoriteToggled("1", "u", true)
    b := NewFavoriteToggled("1", "u", true)
    assert.NotEqual(t, a.EventID, b.EventID)
}

func TestDialTimeoutFollowsDeadline(t *testing.T) {
    assert.Equal(t, defaultDialTimeout, dialTimeout(context.Background()))

    ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
    defer cancel()
    got := dialTimeout(ctx)
    assert.LessOrEqual(t, got, 300*time.Millisecond)
    assert.Greater(t, got, time.Duration(0))

    past, cancelPast := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
    defer cancelPast()
    assert.Greater(t, dialTimeout(past), time.Duration(0))
}

func TestPublishGivesUpOnSilentBroker(t *testing.T) {
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    require.NoError(t, err)
    t.Cleanup(func() { _ = ln.Close() })

    // Accept connections and never answer the AMQP handshake.
    go func() {
        for {
            c, err := ln.Accept()
            if err != nil {
                return
            }
            t.Cleanup(func() { _ = c.Close() })
        }
    }()

    ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
    defer cancel()

    p := NewPublisher("amqp://guest:guest@" + ln.Addr().String() + "/")
    start := time.Now()
    err = p.PublishFavoriteToggled(ctx, NewFavoriteToggled("42", "user_1", true))
    assert.Error(t, err)
    assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPublishCanceledContext(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    err := NewPublisher("amqp://127.0.0.1:1/").PublishEmotionsUpdated(ctx, NewEmotionsUpdated("1", "x", "u", nil))
    assert.ErrorIs(t, err, context.Canceled)
}
