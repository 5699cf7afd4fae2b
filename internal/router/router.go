// Package router wires handlers and middleware onto the echo
// instance.  Route registration is split so tests can mount the admin
// surface against fakes without the health endpoint.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/config"
	"github.com/growai/arbitrageos-admin/internal/handler"
	"github.com/growai/arbitrageos-admin/internal/middleware"
	"github.com/growai/arbitrageos-admin/internal/ratelimit"
)

// RegisterRoutes mounts the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// AdminDeps carries everything the admin surface needs.
type AdminDeps struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Invites *handler.InviteHandler
	Stats   *handler.StatsHandler
	Webhook *handler.WebhookHandler

	Secret    string
	Admins    middleware.AdminVerifier
	Limiter   ratelimit.Limiter
	RateLimit config.RateLimitConfig
}

// RegisterAdmin mounts the admin API.
//
// Session endpoints are reachable without a session (login has none
// yet, validate/refresh inspect their own). Everything else under
// /v1/admin sits behind the authentication gate, the role check, and
// a per-action rate limit keyed by the verified admin id.
func RegisterAdmin(e *echo.Echo, d AdminDeps) {
	auth := e.Group("/v1/admin/auth")
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/validate", d.Auth.Validate)
	auth.POST("/refresh", d.Auth.Refresh)

	admin := e.Group("/v1/admin",
		middleware.AdminAuth(d.Secret, d.Admins),
		middleware.RequireRole("admin", "super_admin"),
	)
	limited := func(pol config.RateLimitPolicy) echo.MiddlewareFunc {
		return middleware.RateLimit(d.Limiter, d.RateLimit, pol)
	}

	admin.GET("/users", d.Users.List, limited(d.RateLimit.API))
	admin.PATCH("/users/:id", d.Users.Act, limited(d.RateLimit.UserAction))

	admin.POST("/invites/send", d.Invites.Send, limited(d.RateLimit.InviteSend))
	admin.POST("/invites/:id/resend", d.Invites.Resend, limited(d.RateLimit.InviteSend))
	admin.GET("/invites", d.Invites.List, limited(d.RateLimit.API))

	admin.GET("/statistics", d.Stats.Get, limited(d.RateLimit.API))

	// Magic-link landing and automation entry points carry their own
	// authentication (provider redirect, shared-secret signature).
	e.GET("/v1/auth/callback", d.Invites.Callback)
	e.POST("/v1/webhooks/invite", d.Webhook.Invite)
	e.GET("/v1/webhooks/invite", d.Webhook.Describe)
}
