// Package middleware provides shared request processing for the
// admin API: the authentication gate and per-action rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/model"
	"github.com/growai/arbitrageos-admin/internal/repository"
	"github.com/growai/arbitrageos-admin/internal/session"
)

// Context keys populated by AdminAuth for downstream handlers.
const (
	CtxAdminID    = "admin_id"
	CtxAdminEmail = "admin_email"
	CtxAdminRole  = "admin_role"
)

// AdminVerifier is the authoritative admin-principal lookup.
// *repository.AdminRepo satisfies it.
type AdminVerifier interface {
	GetByID(ctx context.Context, id string) (model.AdminProfile, error)
}

// AdminAuth returns the authentication gate for privileged routes.
// It extracts a session from the bearer header or the admin_session
// cookie, rejects missing/malformed/expired sessions, and re-verifies
// the subject id against the admin_profiles table on every request.
// Only the id from the session is used for that lookup; the email
// and role claims are client-controlled and never grant access by
// themselves.
func AdminAuth(secret string, admins AdminVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := session.FromRequest(c.Request(), secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "error": "admin authentication required", "code": "UNAUTHENTICATED",
				})
			}
			if s.IsExpired() {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "error": "session expired", "code": "SESSION_EXPIRED",
				})
			}

			prof, err := admins.GetByID(c.Request().Context(), s.ID)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false, "error": "not authorized as admin", "code": "NOT_AUTHORIZED",
				})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"success": false, "error": "authorization check failed", "code": "INTERNAL_ERROR",
				})
			}

			// Expose the DB-verified identity, not the session claims.
			c.Set(CtxAdminID, prof.ID)
			c.Set(CtxAdminEmail, prof.Email)
			c.Set(CtxAdminRole, prof.Role)
			return next(c)
		}
	}
}
