package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinemood/internal/middleware"
    "github.com/iliyamo/cinemood/internal/service"
)

// EmotionHandler serves emotion tagging and emotion-based browsing.
type EmotionHandler struct {
    Emotions *service.EmotionService
    Timeout  time.Duration
}

type emotionListReq struct {
    Emotion  string `param:"emotion" validate:"required,emotion"`
    Page     int    `query:"page" validate:"gte=1,lte=1000000"`
    PageSize int    `query:"page_size" validate:"gte=1,lte=100"`
}

// All handles GET /v1/emotions.
func (h *EmotionHandler) All(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Emotions.AllEmotions()})
}

// ListShows handles GET /v1/emotions/:emotion/shows?page&page_size.
func (h *EmotionHandler) ListShows(c echo.Context) error {
    req := emotionListReq{Page: 1, PageSize: defaultPageSize}
    if err := bindAndValidate(c, &req); err != nil {
        return badRequest(c, err)
    }

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    res, err := h.Emotions.ListByEmotion(ctx, req.Emotion, req.Page, req.PageSize)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":       res.Items,
        "total":       res.Total,
        "page":        res.Page,
        "page_size":   req.PageSize,
        "total_pages": res.TotalPages,
    })
}

// Update handles POST /v1/shows/:id/emotions: reclassifies the show and
// returns the stored labels.
func (h *EmotionHandler) Update(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    labels, err := h.Emotions.UpdateEmotions(ctx, middleware.CallerFrom(c), c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "emotions": labels})
}

// IsTagged handles GET /v1/shows/:id/tagged.  Anonymous callers get false.
func (h *EmotionHandler) IsTagged(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    ok, err := h.Emotions.IsTagged(ctx, middleware.CallerFrom(c), c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "tagged": ok})
}
