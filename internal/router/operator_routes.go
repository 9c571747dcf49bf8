package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-scheduler/internal/handler"
	"github.com/iliyamo/gig-scheduler/internal/middleware"
	"github.com/iliyamo/gig-scheduler/internal/utils"
)

// RegisterOperator registers the scheduling-desk endpoints under /v1/gigs.
// All routes require a valid JWT with the operator role.
func RegisterOperator(e *echo.Echo, g *handler.GigHandler, jwtSecret string) {
	op := e.Group(
		"/v1/gigs",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleOperator),
	)
	op.POST("", g.Create)
	op.POST("/validate", g.Validate)
	op.POST("/:id/cancellations", g.Cancel)
}
