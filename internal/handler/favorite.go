package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemood/internal/middleware"
    "github.com/iliyamo/cinemood/internal/service"
)

// FavoriteHandler serves the caller's favorites and local user record.
type FavoriteHandler struct {
    Favorites *service.FavoriteService
    Timeout   time.Duration
}

type checkReq struct {
    IDs []string `json:"ids" validate:"max=500,dive,required"`
}

type meResp struct {
    ID         string    `json:"id"`
    ExternalID string    `json:"external_id"`
    Email      string    `json:"email"`
    Favorites  []string  `json:"favorites"`
    CreatedAt  time.Time `json:"created_at"`
}

// Toggle handles POST /v1/favorites/:id/toggle.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    on, err := h.Favorites.Toggle(ctx, middleware.CallerFrom(c), c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "favorited": on})
}

// List handles GET /v1/favorites.
func (h *FavoriteHandler) List(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    shows, err := h.Favorites.List(ctx, middleware.CallerFrom(c))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// Check handles POST /v1/favorites/check with {"ids": [...]} and answers
// with an id -> favorited object.  Anonymous callers get all false.
func (h *FavoriteHandler) Check(c echo.Context) error {
    var req checkReq
    if err := bindAndValidate(c, &req); err != nil {
        return badRequest(c, err)
    }

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    res, err := h.Favorites.BatchCheck(ctx, middleware.CallerFrom(c), req.IDs)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Me handles GET /v1/me, creating the local record on first call.
func (h *FavoriteHandler) Me(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    u, err := h.Favorites.EnsureUser(ctx, middleware.CallerFrom(c))
    if err != nil {
        return writeError(c, err)
    }
    favs := u.Favorites
    if favs == nil {
        favs = []string{}
    }
    return c.JSON(http.StatusOK, meResp{
        ID:         u.ID,
        ExternalID: u.ExternalID,
        Email:      u.Email,
        Favorites:  favs,
        CreatedAt:  u.CreatedAt,
    })
}
