// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchprice/ticket-market/internal/handler"
	"github.com/matchprice/ticket-market/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated read endpoints: cached
// fixture listings per team and league, per-fixture offers and rate
// lookups.
func RegisterPublic(e *echo.Echo, fixtures *handler.FixtureHandler, offers *handler.OfferHandler, rates *handler.RatesHandler) {
	g := e.Group("/v1")
	g.GET("/teams/:id/fixtures", fixtures.GetTeamFixtures)
	g.GET("/leagues/:id/fixtures", fixtures.GetLeagueFixtures)
	g.GET("/fixtures/:id/offers", offers.GetFixtureOffers)
	g.GET("/rates", rates.GetRate)
	g.GET("/rates/convert", rates.Convert)
}

// RegisterOffers registers the offer mutation endpoints.  Every route
// requires a valid access token with a seller role and passes through the
// token bucket, since each mutation fans out into a minimum price
// recomputation and cache reloads.
func RegisterOffers(e *echo.Echo, offers *handler.OfferHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/offers")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("AGENT", "SUPPLIER", "ADMIN"))
	g.Use(limiter)
	g.POST("", offers.CreateOffer)
	g.DELETE("", offers.DeleteOwnerOffer)
	g.DELETE("/:id", offers.DeleteOffer)
	g.PATCH("/:id/availability", offers.SetAvailability)
}

// RegisterAdmin registers the operational endpoints: cache inspection and
// clearing plus the manual rate refresh.  ADMIN only.
func RegisterAdmin(e *echo.Echo, cacheAdmin *handler.CacheAdminHandler, rates *handler.RatesHandler, jwtSecret string) {
	g := e.Group("/v1/cache")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	g.GET("/stats", cacheAdmin.Stats)
	g.DELETE("/:name", cacheAdmin.Clear)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/rates/refresh", rates.RefreshRates)
}
