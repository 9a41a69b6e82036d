package router

import (
	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/handler"
	"github.com/connectfe/connectfe-api/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and no
// dependencies.  Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Token issuance and
// exchange live under /v1/auth without middleware; /v1/me sits behind
// JWT validation.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// New access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token (all sessions) or a
	// refresh_token body (one session), so no JWT middleware here.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints behind
// the shared response cache: the raffle catalog, single raffles, their
// sold-number grids and the campaign catalog.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cp *handler.CampaignHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/raffles", b.ListRaffles)
	g.GET("/raffles/:id", b.GetRaffle)
	g.GET("/raffles/:id/numbers", b.SoldNumbers)
	g.GET("/campaigns", cp.List)
	g.GET("/campaigns/:id", cp.Get)
}
