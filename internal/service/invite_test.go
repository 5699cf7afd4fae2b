package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/growai/arbitrageos-admin/internal/model"
	q "github.com/growai/arbitrageos-admin/internal/queue"
	"github.com/growai/arbitrageos-admin/internal/repository"
)

// fakeInviteStore keeps invites in memory with upsert-by-email
// semantics matching the SQL layer.
type fakeInviteStore struct {
	byEmail map[string]*model.Invite
	nextID  int
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{byEmail: map[string]*model.Invite{}}
}

func (f *fakeInviteStore) Upsert(_ context.Context, email, invitedBy string, sentAt, expiresAt time.Time) (model.Invite, error) {
	if inv, ok := f.byEmail[email]; ok {
		if inv.Status != model.InviteStatusAccepted {
			inv.Status = model.InviteStatusSent
			inv.InvitedBy = invitedBy
			inv.SentAt = sentAt
			inv.ExpiresAt = expiresAt
		}
		return *inv, nil
	}
	f.nextID++
	inv := &model.Invite{
		ID:        string(rune('a' + f.nextID - 1)),
		Email:     email,
		Status:    model.InviteStatusSent,
		InvitedBy: invitedBy,
		SentAt:    sentAt,
		ExpiresAt: expiresAt,
	}
	f.byEmail[email] = inv
	return *inv, nil
}

func (f *fakeInviteStore) GetByID(_ context.Context, id string) (model.Invite, error) {
	for _, inv := range f.byEmail {
		if inv.ID == id {
			return *inv, nil
		}
	}
	return model.Invite{}, repository.ErrNotFound
}

func (f *fakeInviteStore) GetByEmail(_ context.Context, email string) (model.Invite, error) {
	if inv, ok := f.byEmail[email]; ok {
		return *inv, nil
	}
	return model.Invite{}, repository.ErrNotFound
}

func (f *fakeInviteStore) Refresh(_ context.Context, id string, sentAt, expiresAt time.Time) error {
	for _, inv := range f.byEmail {
		if inv.ID == id && inv.Status != model.InviteStatusAccepted {
			inv.Status = model.InviteStatusSent
			inv.SentAt = sentAt
			inv.ExpiresAt = expiresAt
		}
	}
	return nil
}

func (f *fakeInviteStore) MarkAccepted(_ context.Context, id string, acceptedAt time.Time) error {
	for _, inv := range f.byEmail {
		if inv.ID == id && inv.Status != model.InviteStatusAccepted {
			inv.Status = model.InviteStatusAccepted
			t := acceptedAt
			inv.AcceptedAt = &t
		}
	}
	return nil
}

func (f *fakeInviteStore) List(_ context.Context) ([]model.Invite, error) {
	out := []model.Invite{}
	for _, inv := range f.byEmail {
		out = append(out, *inv)
	}
	return out, nil
}

type fakeUserStore struct {
	byEmail       map[string]*model.User
	markActiveErr error
}

func newFakeUserStore() *fakeUserStore { return &fakeUserStore{byEmail: map[string]*model.User{}} }

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) MarkActive(_ context.Context, email string, loginAt time.Time) error {
	if f.markActiveErr != nil {
		return f.markActiveErr
	}
	if u, ok := f.byEmail[email]; ok {
		u.Status = model.UserStatusActive
		t := loginAt
		u.LastLogin = &t
	}
	return nil
}

type fakeLinks struct {
	fail  bool
	calls int
	last  string // last redirectTo
}

func (f *fakeLinks) GenerateLink(_ context.Context, email, redirectTo string) (string, error) {
	f.calls++
	f.last = redirectTo
	if f.fail {
		return "", errors.New("provider down")
	}
	return "https://id.example.com/verify?token=abc&email=" + email, nil
}

type fakeMailer struct {
	fail  bool
	calls int
}

func (f *fakeMailer) SendInvite(_ context.Context, toEmail, magicLink, inviteID string) error {
	f.calls++
	if f.fail {
		return errors.New("smtp down")
	}
	return nil
}

type fakePublisher struct{ events []q.AdminEvent }

func (f *fakePublisher) Publish(_ context.Context, ev q.AdminEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type inviteFixture struct {
	svc     *InviteService
	invites *fakeInviteStore
	users   *fakeUserStore
	links   *fakeLinks
	mail    *fakeMailer
	pub     *fakePublisher
	now     time.Time
}

func newInviteFixture(t *testing.T) *inviteFixture {
	t.Helper()
	fx := &inviteFixture{
		invites: newFakeInviteStore(),
		users:   newFakeUserStore(),
		links:   &fakeLinks{},
		mail:    &fakeMailer{},
		pub:     &fakePublisher{},
		now:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	fx.svc = NewInviteService(fx.invites, fx.users, fx.links, fx.mail, fx.pub, "https://admin.example.com")
	fx.svc.now = func() time.Time { return fx.now }
	return fx
}

func TestSendInviteCreatesRecord(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	inv, err := fx.svc.SendInvite(ctx, "  A@X.Com ", "admin1@example.com")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if inv.Email != "a@x.com" {
		t.Fatalf("email not normalized: %q", inv.Email)
	}
	if inv.Status != model.InviteStatusSent {
		t.Fatalf("status = %q, want sent", inv.Status)
	}
	if want := fx.now.Add(InviteTTL); !inv.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", inv.ExpiresAt, want)
	}
	if fx.links.calls != 1 || fx.mail.calls != 1 {
		t.Fatalf("links/mail calls = %d/%d, want 1/1", fx.links.calls, fx.mail.calls)
	}
	if len(fx.pub.events) != 1 || fx.pub.events[0].Type != q.EventInviteSent {
		t.Fatalf("events = %+v, want one invite.sent", fx.pub.events)
	}
}

func TestSendInviteIsIdempotentPerEmail(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	first, err := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	if err != nil {
		t.Fatalf("first send: %v", err)
	}

	fx.now = fx.now.Add(2 * time.Hour)
	second, err := fx.svc.SendInvite(ctx, "a@x.com", "admin2@example.com")
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second send must reuse the record: %q vs %q", second.ID, first.ID)
	}
	if !second.SentAt.After(first.SentAt) || !second.ExpiresAt.After(first.ExpiresAt) {
		t.Fatal("second send must overwrite sent_at/expires_at")
	}
	if n := len(fx.invites.byEmail); n != 1 {
		t.Fatalf("invite records = %d, want exactly 1", n)
	}
}

func TestSendInviteRejectsAcceptedInvite(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	if _, err := fx.svc.AcceptInvite(ctx, inv.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	if !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("err = %v, want ErrAlreadyAccepted", err)
	}
	stored, _ := fx.invites.GetByEmail(ctx, "a@x.com")
	if stored.Status != model.InviteStatusAccepted {
		t.Fatalf("record regressed to %q", stored.Status)
	}
}

func TestSendInviteRejectsActiveAccount(t *testing.T) {
	fx := newInviteFixture(t)
	fx.users.byEmail["a@x.com"] = &model.User{ID: "u1", Email: "a@x.com", Status: model.UserStatusActive}

	_, err := fx.svc.SendInvite(context.Background(), "a@x.com", "admin1@example.com")
	if !errors.Is(err, ErrAlreadyActiveAccount) {
		t.Fatalf("err = %v, want ErrAlreadyActiveAccount", err)
	}
}

func TestSendInviteRejectsMalformedEmail(t *testing.T) {
	fx := newInviteFixture(t)
	for _, email := range []string{"", "   ", "no-at-sign", "a@"} {
		if _, err := fx.svc.SendInvite(context.Background(), email, "admin1@example.com"); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("SendInvite(%q) err = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestSendInviteLinkFailureKeepsRecord(t *testing.T) {
	fx := newInviteFixture(t)
	fx.links.fail = true
	ctx := context.Background()

	_, err := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	if !errors.Is(err, ErrLinkGeneration) {
		t.Fatalf("err = %v, want ErrLinkGeneration", err)
	}
	// The upsert already committed; a retry is safe and upserts again.
	if _, err := fx.invites.GetByEmail(ctx, "a@x.com"); err != nil {
		t.Fatal("invite record must survive a link-generation failure")
	}
	if fx.mail.calls != 0 {
		t.Fatal("no email may be attempted without a link")
	}

	fx.links.fail = false
	if _, err := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com"); err != nil {
		t.Fatalf("retry after provider recovery: %v", err)
	}
}

func TestSendInviteDeliveryFailureKeepsRecord(t *testing.T) {
	fx := newInviteFixture(t)
	fx.mail.fail = true
	ctx := context.Background()

	_, err := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("err = %v, want ErrDelivery", err)
	}
	if _, err := fx.invites.GetByEmail(ctx, "a@x.com"); err != nil {
		t.Fatal("invite record must survive a delivery failure")
	}
}

func TestResendInvite(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")

	fx.now = fx.now.Add(3 * 24 * time.Hour)
	resent, err := fx.svc.ResendInvite(ctx, inv.ID)
	if err != nil {
		t.Fatalf("resend: %v", err)
	}
	if resent.ID != inv.ID {
		t.Fatal("resend must not create a new id")
	}
	if resent.Status != model.InviteStatusSent {
		t.Fatalf("status = %q, want sent", resent.Status)
	}
	if !resent.ExpiresAt.After(inv.ExpiresAt) || !resent.SentAt.After(inv.SentAt) {
		t.Fatal("resend must advance expires_at and sent_at")
	}
}

func TestResendInviteNotFound(t *testing.T) {
	fx := newInviteFixture(t)
	if _, err := fx.svc.ResendInvite(context.Background(), "missing"); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("err = %v, want ErrInviteNotFound", err)
	}
}

func TestResendAcceptedInviteRejected(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	accepted, _ := fx.svc.AcceptInvite(ctx, inv.ID)

	_, err := fx.svc.ResendInvite(ctx, inv.ID)
	if !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("err = %v, want ErrAlreadyAccepted", err)
	}
	stored, _ := fx.invites.GetByID(ctx, inv.ID)
	if stored.AcceptedAt == nil || !stored.AcceptedAt.Equal(*accepted.AcceptedAt) {
		t.Fatal("accepted_at must not change on a rejected resend")
	}
}

func TestAcceptInviteActivatesUser(t *testing.T) {
	fx := newInviteFixture(t)
	fx.users.byEmail["a@x.com"] = &model.User{ID: "u1", Email: "a@x.com", Status: model.UserStatusInvited}
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	accepted, err := fx.svc.AcceptInvite(ctx, inv.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != model.InviteStatusAccepted || accepted.AcceptedAt == nil {
		t.Fatalf("invite not accepted: %+v", accepted)
	}
	u, _ := fx.users.GetByEmail(ctx, "a@x.com")
	if u.Status != model.UserStatusActive {
		t.Fatalf("user status = %q, want active", u.Status)
	}
	if u.LastLogin == nil || !u.LastLogin.Equal(fx.now) {
		t.Fatal("last_login must record the acceptance time")
	}
}

func TestAcceptInviteIsIdempotent(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")
	first, _ := fx.svc.AcceptInvite(ctx, inv.ID)

	fx.now = fx.now.Add(time.Hour)
	replay, err := fx.svc.AcceptInvite(ctx, inv.ID)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !replay.AcceptedAt.Equal(*first.AcceptedAt) {
		t.Fatal("replaying the callback must not move accepted_at")
	}
}

func TestAcceptInviteActivationFailureIsRetriable(t *testing.T) {
	fx := newInviteFixture(t)
	fx.users.byEmail["a@x.com"] = &model.User{ID: "u1", Email: "a@x.com", Status: model.UserStatusInvited}
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")

	fx.users.markActiveErr = errors.New("db down")
	if _, err := fx.svc.AcceptInvite(ctx, inv.ID); err == nil {
		t.Fatal("accept must surface the activation failure")
	}
	// The invite must not reach the terminal state while the user row
	// is still unactivated, or a replay could never repair it.
	stored, _ := fx.invites.GetByID(ctx, inv.ID)
	if stored.Status != model.InviteStatusSent {
		t.Fatalf("stored status = %q, want sent after partial failure", stored.Status)
	}

	fx.users.markActiveErr = nil
	replay, err := fx.svc.AcceptInvite(ctx, inv.ID)
	if err != nil {
		t.Fatalf("replay after recovery: %v", err)
	}
	if replay.Status != model.InviteStatusAccepted {
		t.Fatalf("replay status = %q, want accepted", replay.Status)
	}
	u, _ := fx.users.GetByEmail(ctx, "a@x.com")
	if u.Status != model.UserStatusActive {
		t.Fatalf("user status = %q, want active", u.Status)
	}
}

func TestListInvitesDerivesExpiry(t *testing.T) {
	fx := newInviteFixture(t)
	ctx := context.Background()

	inv, _ := fx.svc.SendInvite(ctx, "a@x.com", "admin1@example.com")

	fx.now = inv.ExpiresAt.Add(time.Minute)
	list, err := fx.svc.ListInvites(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.InviteStatusExpired {
		t.Fatalf("list = %+v, want one expired invite", list)
	}
	// Derived only: the stored row still says sent.
	stored, _ := fx.invites.GetByID(ctx, inv.ID)
	if stored.Status != model.InviteStatusSent {
		t.Fatalf("stored status = %q, want sent", stored.Status)
	}
}

func TestInviteLifecycleScenario(t *testing.T) {
	fx := newInviteFixture(t)
	fx.users.byEmail["a@x.com"] = &model.User{ID: "u1", Email: "a@x.com", Status: model.UserStatusInvited}
	ctx := context.Background()

	inv, err := fx.svc.SendInvite(ctx, "a@x.com", "admin1")
	if err != nil || inv.Status != model.InviteStatusSent {
		t.Fatalf("send: %v (%+v)", err, inv)
	}

	fx.now = fx.now.Add(24 * time.Hour)
	resent, err := fx.svc.ResendInvite(ctx, inv.ID)
	if err != nil || resent.Status != model.InviteStatusSent {
		t.Fatalf("resend: %v", err)
	}
	if !resent.ExpiresAt.After(inv.ExpiresAt) {
		t.Fatal("resend must advance expiry")
	}

	if _, err := fx.svc.AcceptInvite(ctx, inv.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	u, _ := fx.users.GetByEmail(ctx, "a@x.com")
	if u.Status != model.UserStatusActive {
		t.Fatalf("user status = %q, want active", u.Status)
	}

	if _, err := fx.svc.SendInvite(ctx, "a@x.com", "admin2"); !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("third send err = %v, want ErrAlreadyAccepted", err)
	}
}
