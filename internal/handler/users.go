package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/model"
	"github.com/growai/arbitrageos-admin/internal/service"
)

// UserManager is the account-management surface the handlers need.
// *service.UserService satisfies it.
type UserManager interface {
	ListUsers(ctx context.Context) ([]model.UserWithStats, error)
	Suspend(ctx context.Context, userID, actor string) error
	Activate(ctx context.Context, userID, actor string) error
}

type UserHandler struct {
	Users UserManager
}

func NewUserHandler(users UserManager) *UserHandler {
	return &UserHandler{Users: users}
}

// List returns every account with its derived usage counts.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		return failInternal(c)
	}
	if users == nil {
		users = []model.UserWithStats{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

type userActionReq struct {
	Action string `json:"action"`
}

// Act applies a status action to one account.  Only "suspend" and
// "activate" exist; anything else is a validation failure before any
// datastore access.
func (h *UserHandler) Act(c echo.Context) error {
	userID := c.Param("id")
	var req userActionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor := adminEmail(c)
	var err error
	switch req.Action {
	case "suspend":
		err = h.Users.Suspend(ctx, userID, actor)
	case "activate":
		err = h.Users.Activate(ctx, userID, actor)
	default:
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "action must be suspend or activate")
	}
	if errors.Is(err, service.ErrUserNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "user not found")
	}
	if err != nil {
		return failInternal(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
