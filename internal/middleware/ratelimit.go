package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/config"
	"github.com/growai/arbitrageos-admin/internal/ratelimit"
)

// RateLimit applies one fixed-window policy to a route, keyed by the
// authenticated admin id, so it must run after AdminAuth.  Counter
// store failures fail open: an unreachable Redis slows abuse
// detection but never takes the back-office down.
func RateLimit(limiter ratelimit.Limiter, cfg config.RateLimitConfig, pol config.RateLimitPolicy) echo.MiddlewareFunc {
	if !cfg.Enabled || limiter == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := c.Get(CtxAdminID).(string)
			if principal == "" {
				principal = "anon"
			}
			key := cfg.Prefix + ":" + pol.Name + ":" + principal

			res, err := limiter.Allow(c.Request().Context(), key, pol.Limit, pol.Window)
			if err != nil {
				log.Printf("ratelimit: counter store error for key=%s: %v", key, err)
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(pol.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success":    false,
					"error":      "rate limit exceeded",
					"code":       "RATE_LIMITED",
					"remaining":  res.Remaining,
					"retryAfter": res.ResetAt.Unix(),
				})
			}
			return next(c)
		}
	}
}
