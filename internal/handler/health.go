package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and
// monitoring. It deliberately touches no dependency: the service is
// "up" as long as it can answer.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
