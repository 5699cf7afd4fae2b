package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/model"
)

// InviteManager is the lifecycle surface the handlers need.
// *service.InviteService satisfies it.
type InviteManager interface {
	SendInvite(ctx context.Context, email, invitedBy string) (model.Invite, error)
	ResendInvite(ctx context.Context, inviteID string) (model.Invite, error)
	AcceptInvite(ctx context.Context, inviteID string) (model.Invite, error)
	ListInvites(ctx context.Context) ([]model.Invite, error)
}

// InviteHandler exposes the invite lifecycle over HTTP.  BaseURL is
// the public origin the acceptance callback redirects back into.
type InviteHandler struct {
	Invites InviteManager
	BaseURL string
}

func NewInviteHandler(invites InviteManager, baseURL string) *InviteHandler {
	return &InviteHandler{Invites: invites, BaseURL: baseURL}
}

type sendInviteReq struct {
	Email string `json:"email"`
}

// Send creates or refreshes the invite for an email and delivers the
// magic link.  The acting admin is recorded as the inviter.
func (h *InviteHandler) Send(c echo.Context) error {
	var req sendInviteReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	inv, err := h.Invites.SendInvite(ctx, req.Email, adminEmail(c))
	if err != nil {
		return inviteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "invite": inv})
}

// Resend re-delivers an existing invite by id with a fresh window.
func (h *InviteHandler) Resend(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	inv, err := h.Invites.ResendInvite(ctx, c.Param("id"))
	if err != nil {
		return inviteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "invite": inv})
}

// List returns all invites newest-first with derived expiry applied.
func (h *InviteHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	invites, err := h.Invites.ListInvites(ctx)
	if err != nil {
		return failInternal(c)
	}
	if invites == nil {
		invites = []model.Invite{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "invites": invites})
}

// Callback is the magic-link landing endpoint.  The identity provider
// redirects here after first login with the invite id as correlation
// data; recording the acceptance is best-effort and the user is
// forwarded into the app either way.  Replays are harmless because
// acceptance is idempotent.
func (h *InviteHandler) Callback(c echo.Context) error {
	inviteID := c.QueryParam("invite_id")
	next := c.QueryParam("next")
	// Only same-origin paths are honoured; "//host" would leave the
	// origin through a protocol-relative URL.
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}

	if inviteID != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if _, err := h.Invites.AcceptInvite(ctx, inviteID); err != nil {
			c.Logger().Warnf("invite callback: accept %s failed: %v", inviteID, err)
			return c.Redirect(http.StatusFound,
				h.BaseURL+"/login?error="+url.QueryEscape("invite could not be confirmed"))
		}
	}
	return c.Redirect(http.StatusFound, h.BaseURL+next)
}
