// Package handler exposes the HTTP API.  Handlers translate requests into
// service calls and service errors into {"error": ...} responses; nothing
// below them knows about HTTP.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemood/internal/logging"
    "github.com/iliyamo/cinemood/internal/service"
    "github.com/iliyamo/cinemood/internal/validation"
)

// DefaultTimeout bounds the store work of one request.
const DefaultTimeout = 5 * time.Second

const (
    defaultPageSize = 20
    maxPageSize     = 100
)

func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
    if d <= 0 {
        d = DefaultTimeout
    }
    return context.WithTimeout(c.Request().Context(), d)
}

// errorStatus maps a service error onto a status code and a client-safe
// message.  Internal causes are logged, never returned.
func errorStatus(err error) (int, string) {
    switch {
    case errors.Is(err, service.ErrUnauthorized):
        return http.StatusUnauthorized, "unauthorized"
    case errors.Is(err, service.ErrNotFound):
        return http.StatusNotFound, "not found"
    case errors.Is(err, service.ErrInvalidArgument):
        return http.StatusBadRequest, err.Error()
    case errors.Is(err, service.ErrUpdateFailed):
        return http.StatusInternalServerError, "update failed"
    case errors.Is(err, context.DeadlineExceeded):
        return http.StatusGatewayTimeout, "timeout"
    default:
        return http.StatusInternalServerError, "query failed"
    }
}

func writeError(c echo.Context, err error) error {
    status, msg := errorStatus(err)
    if status >= http.StatusInternalServerError {
        logging.Ctx(c.Request().Context()).Error().Err(err).Str("route", c.Path()).Msg("request failed")
    }
    return c.JSON(status, echo.Map{"error": msg})
}

var errMalformed = errors.New("malformed request")

// bindAndValidate binds path, query and body into req and validates it.
// The returned error is safe to show to the client.
func bindAndValidate(c echo.Context, req any) error {
    if err := c.Bind(req); err != nil {
        return errMalformed
    }
    return validation.ValidateStruct(req)
}

func badRequest(c echo.Context, err error) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// pageParams reads page and page_size leniently: missing or junk values
// fall back to defaults and page_size is clamped to maxPageSize.
func pageParams(c echo.Context) (page, pageSize int) {
    page, _ = strconv.Atoi(c.QueryParam("page"))
    if page < 1 {
        page = 1
    }
    pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
    if pageSize < 1 {
        pageSize = defaultPageSize
    }
    if pageSize > maxPageSize {
        pageSize = maxPageSize
    }
    return page, pageSize
}
