package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemood/internal/identity"
)

// callerKey is the echo context key holding the *identity.User.
const callerKey = "caller"

// Identity parses an optional "Authorization: Bearer <token>" header.  A
// valid token stores the caller in the context; a missing or invalid one
// leaves the request anonymous and lets the handler decide.
func Identity(v *identity.Verifier) echo.MiddlewareFunc {
    if v == nil {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if raw, ok := strings.CutPrefix(auth, "Bearer "); ok && raw != "" {
                if u, err := v.Verify(raw); err == nil {
                    c.Set(callerKey, u)
                }
            }
            return next(c)
        }
    }
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if CallerFrom(c) == nil {
                return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
            }
            return next(c)
        }
    }
}

// CallerFrom returns the authenticated caller, or nil.
func CallerFrom(c echo.Context) *identity.User {
    u, _ := c.Get(callerKey).(*identity.User)
    return u
}

// SetCaller stores u as the caller; used by tests that bypass tokens.
func SetCaller(c echo.Context, u *identity.User) {
    c.Set(callerKey, u)
}

// userID returns the caller id for keying, or "anon".
func userID(c echo.Context) string {
    if u := CallerFrom(c); u != nil && u.ID != "" {
        return u.ID
    }
    return "anon"
}
