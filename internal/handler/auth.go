package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/model"
	"github.com/growai/arbitrageos-admin/internal/repository"
	"github.com/growai/arbitrageos-admin/internal/session"
)

// AdminDirectory resolves admin principals from the authoritative
// store.  *repository.AdminRepo satisfies it.
type AdminDirectory interface {
	GetByID(ctx context.Context, id string) (model.AdminProfile, error)
	GetByEmail(ctx context.Context, email string) (model.AdminProfile, error)
}

// AuthHandler bundles dependencies for the session endpoints.  The
// session itself is client-held; these handlers only mint, inspect,
// slide, and clear it.
type AuthHandler struct {
	Secret string
	Admins AdminDirectory
}

func NewAuthHandler(secret string, admins AdminDirectory) *AuthHandler {
	return &AuthHandler{Secret: secret, Admins: admins}
}

type loginReq struct {
	Email string `json:"email"`
}

// Login resolves the email against the admin_profiles table and, when
// it matches, issues a fresh session in both transports: the
// admin_session cookie and a signed bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "email required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prof, err := h.Admins.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusForbidden, "NOT_AUTHORIZED", "not authorized as admin")
	}
	if err != nil {
		return failInternal(c)
	}

	s := session.New(prof.ID, prof.Email, prof.Role)
	tok, err := session.SignToken(h.Secret, s)
	if err != nil {
		return failInternal(c)
	}
	h.setSessionCookie(c, s)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"session": s,
		"token":   tok,
	})
}

// Logout clears the session cookie.  There is no server-side state to
// revoke: an expired cookie is an invalid session everywhere.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Validate reports whether the inbound session is usable: present,
// unexpired, and still backed by an admin_profiles row.
func (h *AuthHandler) Validate(c echo.Context) error {
	s, err := session.FromRequest(c.Request(), h.Secret)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "no session found")
	}
	if s.IsExpired() {
		return fail(c, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	prof, err := h.Admins.GetByID(ctx, s.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "NOT_AUTHORIZED", "session invalid or user not admin")
	}
	if err != nil {
		return failInternal(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"user":       echo.Map{"id": prof.ID, "email": prof.Email, "role": prof.Role},
		"expires_at": s.ExpiresAt,
	})
}

// Refresh slides the session window when it is close to expiry.  An
// expired session cannot be refreshed; a session with plenty of time
// left is returned untouched with refreshed=false.
func (h *AuthHandler) Refresh(c echo.Context) error {
	s, err := session.FromRequest(c.Request(), h.Secret)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "no session found")
	}
	if s.IsExpired() {
		return fail(c, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired")
	}
	if !s.ShouldRefresh() {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "refreshed": false})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Admins.GetByID(ctx, s.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "NOT_AUTHORIZED", "user validation failed")
		}
		return failInternal(c)
	}

	refreshed := s.Refresh()
	h.setSessionCookie(c, refreshed)
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"refreshed": true,
		"session":   refreshed,
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, s session.Session) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    session.EncodeCookie(s),
		Path:     "/",
		Expires:  s.ExpiresAt,
		SameSite: http.SameSiteLaxMode,
	})
}
