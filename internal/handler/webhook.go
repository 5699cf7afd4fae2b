package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// WebhookHandler lets upstream automation trigger invites without an
// admin session.  Requests authenticate with a shared secret in the
// X-Webhook-Signature header; an empty configured secret disables the
// check for local development.
type WebhookHandler struct {
	Invites InviteManager
	Secret  string
	Source  string // recorded as the inviter, e.g. "Grow AI"
}

func NewWebhookHandler(invites InviteManager, secret, source string) *WebhookHandler {
	if source == "" {
		source = "automation"
	}
	return &WebhookHandler{Invites: invites, Secret: secret, Source: source}
}

type webhookInviteReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Tag   string `json:"tag"`
}

// Invite handles POST: verify the signature, then run the same send
// path an admin would.
func (h *WebhookHandler) Invite(c echo.Context) error {
	if h.Secret != "" {
		sig := c.Request().Header.Get("X-Webhook-Signature")
		if subtle.ConstantTimeCompare([]byte(sig), []byte(h.Secret)) != 1 {
			return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid webhook signature")
		}
	}

	var req webhookInviteReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	inv, err := h.Invites.SendInvite(ctx, req.Email, h.Source)
	if err != nil {
		return inviteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "invite": inv})
}

// Describe answers GET with a liveness descriptor so integrators can
// confirm the endpoint exists without sending a real payload.
func (h *WebhookHandler) Describe(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"name":    "invite webhook",
		"method":  http.MethodPost,
		"fields":  []string{"email", "name", "tag"},
	})
}
