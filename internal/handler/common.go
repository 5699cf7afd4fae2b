// Package handler defines the HTTP handlers of the admin API.  Every
// response uses the same envelope: {"success": true, ...} on success
// and {"success": false, "error": ..., "code": ...} on failure.
// Unexpected faults surface as a generic 500 with no internal detail.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/middleware"
	"github.com/growai/arbitrageos-admin/internal/service"
)

// fail writes the error envelope.
func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg, "code": code})
}

// failInternal hides the cause from the client; the details went to
// the log at the call site.
func failInternal(c echo.Context) error {
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}

// inviteError maps the invite service's typed failures onto HTTP.
func inviteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "valid email is required")
	case errors.Is(err, service.ErrInviteNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "invite not found")
	case errors.Is(err, service.ErrAlreadyAccepted):
		return fail(c, http.StatusConflict, "ALREADY_ACCEPTED", "user already accepted an invite")
	case errors.Is(err, service.ErrAlreadyActiveAccount):
		return fail(c, http.StatusConflict, "ALREADY_ACTIVE_ACCOUNT", "user already has an active account")
	case errors.Is(err, service.ErrLinkGeneration):
		return fail(c, http.StatusBadGateway, "LINK_GENERATION_FAILED", "failed to generate magic link, please try again")
	case errors.Is(err, service.ErrDelivery):
		return fail(c, http.StatusBadGateway, "DELIVERY_FAILED", "failed to send invite email, please try again")
	default:
		return failInternal(c)
	}
}

// adminEmail returns the DB-verified email of the acting admin, as
// stored by the authentication gate.
func adminEmail(c echo.Context) string {
	if v, ok := c.Get(middleware.CtxAdminEmail).(string); ok {
		return v
	}
	return ""
}
