package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gig-scheduler/internal/service"
)

// writeError maps a service error onto a status code.  Rule violations
// carry the rule name; persistence failures never expose the storage
// error text.
func writeError(c echo.Context, err error) error {
	body := echo.Map{"error": err.Error()}
	var status int
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindInvalidInput:
		status = http.StatusBadRequest
	case service.KindAlreadyTerminal:
		status = http.StatusConflict
	case service.KindValidation:
		status = http.StatusUnprocessableEntity
		if v, ok := service.ViolationOf(err); ok {
			body["rule"] = v.Rule
		}
	default:
		status = http.StatusInternalServerError
		body["error"] = "internal error"
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
