package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemood/internal/model"
    "github.com/iliyamo/cinemood/internal/service"
)

// CatalogHandler serves the mixed movie and TV listing.
type CatalogHandler struct {
    Catalog *service.CatalogService
    Timeout time.Duration
}

// List handles GET /v1/catalog?page&page_size&type.  type is "movie",
// "tv", or anything else for both.
func (h *CatalogHandler) List(c echo.Context) error {
    page, pageSize := pageParams(c)
    typeFilter := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    res := h.Catalog.List(ctx, page, pageSize, typeFilter)
    if res.Err != nil {
        _, msg := errorStatus(res.Err)
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "items": []model.ContentItem{},
            "total": 0,
            "error": msg,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":     res.Items,
        "total":     res.Total,
        "page":      page,
        "page_size": pageSize,
    })
}
