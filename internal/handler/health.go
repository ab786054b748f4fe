package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB and by the Mongo adapter in main.
type Pinger interface {
    PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
    Store Pinger
}

// Health returns 200 with {"status":"ok"} when the store answers a ping
// within two seconds, 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
    if h.Store == nil {
        return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()
    if err := h.Store.PingContext(ctx); err != nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "store": "unreachable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok", "store": "ok"})
}
