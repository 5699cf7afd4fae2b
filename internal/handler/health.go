package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes.  It reports process health only;
// datastore reachability surfaces through the real endpoints.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
