package router

import (
	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/handler"
	"github.com/connectfe/connectfe-api/internal/middleware"
	"github.com/connectfe/connectfe-api/internal/model"
)

// RegisterChurch registers the church-only admin endpoints: creating
// raffles and campaigns, drawing, cancelling, and the purchase
// dashboard.  Every route requires a JWT with the CHURCH role.
func RegisterChurch(e *echo.Echo, rh *handler.RaffleHandler, ch *handler.CampaignHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleChurch))
	for _, m := range extra {
		g.Use(m)
	}

	g.POST("/raffles", rh.Create)
	g.POST("/raffles/:id/draw", rh.Draw)
	g.POST("/raffles/:id/cancel", rh.Cancel)
	g.GET("/raffles/:id/purchases", rh.ListPurchases)

	g.POST("/campaigns", ch.Create)
}
