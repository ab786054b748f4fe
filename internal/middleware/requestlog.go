package middleware

import (
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemood/internal/logging"
    "github.com/iliyamo/cinemood/internal/metrics"
)

// RequestLogger tags each request with an id (reusing X-Request-Id when
// the client sent one), logs it on completion and records HTTP metrics.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()

            id := req.Header.Get(echo.HeaderXRequestID)
            if id == "" {
                id = logging.NewRequestID()
            }
            c.Response().Header().Set(echo.HeaderXRequestID, id)
            c.SetRequest(req.WithContext(logging.ContextWithRequestID(req.Context(), id)))

            err := next(c)
            if err != nil {
                c.Error(err)
            }

            status := c.Response().Status
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            elapsed := time.Since(start)
            metrics.RecordAPIRequest(req.Method, route, status, elapsed)

            ev := logging.Ctx(c.Request().Context()).Info()
            if status >= 500 {
                ev = logging.Ctx(c.Request().Context()).Error().Err(err)
            }
            ev.Str("method", req.Method).
                Str("route", route).
                Str("uri", req.RequestURI).
                Int("status", status).
                Dur("latency", elapsed).
                Str("remote_ip", c.RealIP()).
                Str("user_id", userID(c)).
                Msg("request")
            return nil
        }
    }
}
