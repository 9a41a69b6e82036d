package router

import (
	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/handler"
	"github.com/connectfe/connectfe-api/internal/middleware"
	"github.com/connectfe/connectfe-api/internal/model"
)

// RegisterMember registers the member-only endpoints: reserving ticket
// numbers, quick-pick, purchase history and donations.  Every route
// requires a JWT with the MEMBER role; the optional extra middleware is
// where the rate limiter slots in.
func RegisterMember(e *echo.Echo, ph *handler.PurchaseHandler, ch *handler.CampaignHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleMember))
	for _, m := range extra {
		g.Use(m)
	}

	g.POST("/raffles/:id/tickets", ph.Reserve)
	g.GET("/raffles/:id/quick-pick", ph.QuickPick)
	g.GET("/my-tickets", ph.MyTickets)

	g.POST("/campaigns/:id/donate", ch.Donate)
}
