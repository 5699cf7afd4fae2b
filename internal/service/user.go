package service

import (
	"context"
	"errors"
	"time"

	"github.com/growai/arbitrageos-admin/internal/model"
	q "github.com/growai/arbitrageos-admin/internal/queue"
	"github.com/growai/arbitrageos-admin/internal/repository"
)

// ErrUserNotFound is returned when a status change targets a user id
// with no matching row.
var ErrUserNotFound = errors.New("user not found")

// UserDirectory is the persistence surface for account management.
// *repository.UserRepo satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListWithStats(ctx context.Context) ([]model.UserWithStats, error)
}

// UserService toggles account status under admin action.  Both
// operations are unconditional overwrites: suspending an
// already-suspended user is a no-op in effect and still succeeds.
// Whether suspension revokes the user's own sessions is the identity
// layer's responsibility, not handled here.
type UserService struct {
	users  UserDirectory
	events EventPublisher // nil disables event publishing

	now func() time.Time
}

func NewUserService(users UserDirectory, events EventPublisher) *UserService {
	return &UserService{
		users:  users,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Suspend sets the user's status to suspended.
func (s *UserService) Suspend(ctx context.Context, userID, actor string) error {
	return s.setStatus(ctx, userID, model.UserStatusSuspended, actor)
}

// Activate sets the user's status to active.
func (s *UserService) Activate(ctx context.Context, userID, actor string) error {
	return s.setStatus(ctx, userID, model.UserStatusActive, actor)
}

// ListUsers returns all accounts with their derived usage counts.
func (s *UserService) ListUsers(ctx context.Context) ([]model.UserWithStats, error) {
	return s.users.ListWithStats(ctx)
}

func (s *UserService) setStatus(ctx context.Context, userID, status, actor string) error {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if err := s.users.UpdateStatus(ctx, u.ID, status); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, q.AdminEvent{
			Type:       q.EventUserStatusChanged,
			UserID:     u.ID,
			Email:      u.Email,
			Status:     status,
			Actor:      actor,
			OccurredAt: s.now().Format(time.RFC3339),
		})
	}
	return nil
}
