package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/gig-scheduler/internal/utils"
)

// Context keys set by JWTAuth.
const (
    ctxOperator = "operator"
    ctxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the token's subject and role in the context under "operator" and
// "role".  The secret must match the one used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(ctxOperator, claims.Subject)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}

// Operator returns the authenticated operator name, or "" on public routes.
func Operator(c echo.Context) string {
    s, _ := c.Get(ctxOperator).(string)
    return s
}
