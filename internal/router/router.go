package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-scheduler/internal/handler"
)

// RegisterRoutes registers non-authenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the operator login.  limit guards it against
// password guessing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	e.POST("/v1/auth/login", a.Login, limit)
}

// RegisterPublic registers the guest endpoints: the schedule view and
// ticket sales.  Both run behind the rate limiter.
func RegisterPublic(e *echo.Echo, g *handler.GigHandler, t *handler.TicketHandler, limit echo.MiddlewareFunc) {
	e.GET("/v1/gigs/:id/schedule", g.Schedule, limit)
	e.POST("/v1/gigs/:id/tickets", t.Buy, limit)
}
