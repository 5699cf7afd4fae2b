package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/growai/arbitrageos-admin/internal/identity"
	"github.com/growai/arbitrageos-admin/internal/mailer"
	"github.com/growai/arbitrageos-admin/internal/model"
	q "github.com/growai/arbitrageos-admin/internal/queue"
	"github.com/growai/arbitrageos-admin/internal/repository"
)

// InviteTTL is the acceptance window granted on every send or resend.
const InviteTTL = 7 * 24 * time.Hour

// Typed business failures.  Handlers branch on these to pick status
// codes and error codes; none of them roll back the invite upsert,
// so the record survives provider failures and a human operator can
// retry.
var (
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrAlreadyAccepted      = errors.New("invite already accepted")
	ErrAlreadyActiveAccount = errors.New("account already active")
	ErrLinkGeneration       = errors.New("failed to generate magic link")
	ErrDelivery             = errors.New("failed to send invite email")
)

// InviteStore is the persistence surface the lifecycle needs.
// *repository.InviteRepo satisfies it.
type InviteStore interface {
	Upsert(ctx context.Context, email, invitedBy string, sentAt, expiresAt time.Time) (model.Invite, error)
	GetByID(ctx context.Context, id string) (model.Invite, error)
	GetByEmail(ctx context.Context, email string) (model.Invite, error)
	Refresh(ctx context.Context, id string, sentAt, expiresAt time.Time) error
	MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) error
	List(ctx context.Context) ([]model.Invite, error)
}

// UserStore is the slice of the users table the lifecycle touches.
// *repository.UserRepo satisfies it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	MarkActive(ctx context.Context, email string, loginAt time.Time) error
}

// InviteService owns the invitation state machine:
//
//	none -> sent -> { accepted | sent (resent) | expired (derived) }
//
// "accepted" is terminal.  Persist-first, notify-second: the invite
// row is upserted before the identity provider and mailer are called,
// so a lost notification is always recoverable via resend.
type InviteService struct {
	invites InviteStore
	users   UserStore
	links   identity.LinkGenerator
	mail    mailer.Sender
	events  EventPublisher // nil disables event publishing
	baseURL string

	now func() time.Time
}

// NewInviteService wires the lifecycle manager.  baseURL is the
// public origin the magic-link callback lands on.
func NewInviteService(invites InviteStore, users UserStore, links identity.LinkGenerator,
	mail mailer.Sender, events EventPublisher, baseURL string) *InviteService {
	return &InviteService{
		invites: invites,
		users:   users,
		links:   links,
		mail:    mail,
		events:  events,
		baseURL: baseURL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail produces the canonical form used for all invite
// lookups and keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail is a light sanity check; the identity provider performs
// the authoritative validation when minting the link.
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// SendInvite issues (or re-issues) an invite for email.  The upsert
// is idempotent per email: a second call overwrites sent_at and
// expires_at on the same row unless the invite was already accepted.
func (s *InviteService) SendInvite(ctx context.Context, email, invitedBy string) (model.Invite, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return model.Invite{}, ErrInvalidEmail
	}

	existing, err := s.invites.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Status == model.InviteStatusAccepted {
			return model.Invite{}, ErrAlreadyAccepted
		}
	case errors.Is(err, repository.ErrNotFound):
		// first invite for this address
	default:
		return model.Invite{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Status == model.UserStatusActive {
			return model.Invite{}, ErrAlreadyActiveAccount
		}
	case errors.Is(err, repository.ErrNotFound):
		// no account yet
	default:
		return model.Invite{}, err
	}

	now := s.now()
	inv, err := s.invites.Upsert(ctx, email, invitedBy, now, now.Add(InviteTTL))
	if err != nil {
		return model.Invite{}, err
	}

	if err := s.deliver(ctx, inv); err != nil {
		return inv, err
	}
	s.publish(ctx, q.AdminEvent{
		Type:       q.EventInviteSent,
		InviteID:   inv.ID,
		Email:      inv.Email,
		Actor:      invitedBy,
		OccurredAt: now.Format(time.RFC3339),
	})
	return inv, nil
}

// ResendInvite re-sends an existing invite: the expiry window is
// refreshed and the status reset to sent, preserving the id.
// Accepted invites are terminal and rejected, not silently ignored.
func (s *InviteService) ResendInvite(ctx context.Context, inviteID string) (model.Invite, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Invite{}, ErrInviteNotFound
	}
	if err != nil {
		return model.Invite{}, err
	}
	if inv.Status == model.InviteStatusAccepted {
		return model.Invite{}, ErrAlreadyAccepted
	}

	now := s.now()
	if err := s.invites.Refresh(ctx, inv.ID, now, now.Add(InviteTTL)); err != nil {
		return model.Invite{}, err
	}
	inv.Status = model.InviteStatusSent
	inv.SentAt = now
	inv.ExpiresAt = now.Add(InviteTTL)

	if err := s.deliver(ctx, inv); err != nil {
		return inv, err
	}
	s.publish(ctx, q.AdminEvent{
		Type:       q.EventInviteSent,
		InviteID:   inv.ID,
		Email:      inv.Email,
		Actor:      inv.InvitedBy,
		OccurredAt: now.Format(time.RFC3339),
	})
	return inv, nil
}

// AcceptInvite records the acceptance transition after the invited
// principal completed first login through the identity provider.  It
// is idempotent: replaying the callback for an already-accepted
// invite succeeds without regressing state.
func (s *InviteService) AcceptInvite(ctx context.Context, inviteID string) (model.Invite, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Invite{}, ErrInviteNotFound
	}
	if err != nil {
		return model.Invite{}, err
	}
	if inv.Status == model.InviteStatusAccepted {
		return inv, nil
	}

	// Activate first. The accepted status is terminal and the replay
	// guard above returns early on it, so flipping the invite before
	// the user row would leave a failed activation unrepairable by
	// replaying the callback.
	now := s.now()
	if err := s.users.MarkActive(ctx, inv.Email, now); err != nil {
		return model.Invite{}, err
	}
	if err := s.invites.MarkAccepted(ctx, inv.ID, now); err != nil {
		return model.Invite{}, err
	}
	inv.Status = model.InviteStatusAccepted
	inv.AcceptedAt = &now

	s.publish(ctx, q.AdminEvent{
		Type:       q.EventInviteAccepted,
		InviteID:   inv.ID,
		Email:      inv.Email,
		OccurredAt: now.Format(time.RFC3339),
	})
	return inv, nil
}

// ListInvites returns all invites newest-first, with sent invites
// past their window reported as expired.
func (s *InviteService) ListInvites(ctx context.Context) ([]model.Invite, error) {
	invites, err := s.invites.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range invites {
		invites[i].Status = invites[i].EffectiveStatus(now)
	}
	return invites, nil
}

// deliver mints the magic link and sends the invite email.  The
// callback target both completes login and signals acceptance by
// carrying the invite id as correlation data.
func (s *InviteService) deliver(ctx context.Context, inv model.Invite) error {
	redirectTo := fmt.Sprintf("%s/v1/auth/callback?next=%s&invite_id=%s",
		s.baseURL, url.QueryEscape("/"), inv.ID)
	link, err := s.links.GenerateLink(ctx, inv.Email, redirectTo)
	if err != nil {
		log.Printf("invite %s: generate link failed: %v", inv.ID, err)
		return ErrLinkGeneration
	}
	if err := s.mail.SendInvite(ctx, inv.Email, link, inv.ID); err != nil {
		log.Printf("invite %s: email delivery failed: %v", inv.ID, err)
		return ErrDelivery
	}
	return nil
}

// publish emits a domain event; failures are logged and dropped.
func (s *InviteService) publish(ctx context.Context, ev q.AdminEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("publish %s event failed: %v", ev.Type, err)
	}
}
