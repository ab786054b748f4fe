// Package router assembles the echo instance: global middleware first,
// then the public, identity-aware and identity-required route groups.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/cinemood/internal/handler"
	"github.com/iliyamo/cinemood/internal/identity"
	"github.com/iliyamo/cinemood/internal/middleware"
	"github.com/iliyamo/cinemood/internal/service"
	"github.com/iliyamo/cinemood/internal/validation"
)

// Deps is everything the routes need.  Cache and RateLimit may be nil.
type Deps struct {
	Health    *handler.HealthHandler
	Catalog   *handler.CatalogHandler
	Emotions  *handler.EmotionHandler
	Favorites *handler.FavoriteHandler
	Verifier  *identity.Verifier
	Cache     *middleware.ResponseCache
	RateLimit echo.MiddlewareFunc
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.EchoValidator{}

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Identity(d.Verifier))
	if d.RateLimit != nil {
		e.Use(d.RateLimit)
	}

	RegisterRoutes(e, d.Health)
	RegisterPublic(e, d)
	RegisterAuth(e, d)
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	if h == nil {
		h = &handler.HealthHandler{}
	}
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPublic registers endpoints that work with or without a caller.
// Listings are served through the response cache.
func RegisterPublic(e *echo.Echo, d Deps) {
	v1 := e.Group("/v1")

	v1.GET("/catalog", d.Catalog.List, d.Cache.Middleware("catalog"))

	v1.GET("/emotions", d.Emotions.All)
	v1.GET("/emotions/:emotion/shows", d.Emotions.ListShows, d.Cache.Middleware(service.EmotionsCacheNamespace))
	v1.GET("/shows/:id/tagged", d.Emotions.IsTagged)

	v1.POST("/favorites/check", d.Favorites.Check)
}

// RegisterAuth registers endpoints that require an authenticated caller.
// RequireIdentity is attached per route so unknown /v1 paths stay 404.
func RegisterAuth(e *echo.Echo, d Deps) {
	auth := e.Group("/v1")
	required := middleware.RequireIdentity()

	auth.POST("/shows/:id/emotions", d.Emotions.Update, required)
	auth.POST("/favorites/:id/toggle", d.Favorites.Toggle, required)
	auth.GET("/favorites", d.Favorites.List, required)
	auth.GET("/me", d.Favorites.Me, required)
}
