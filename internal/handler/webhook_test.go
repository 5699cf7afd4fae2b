package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/growai/arbitrageos-admin/internal/model"
	"github.com/growai/arbitrageos-admin/internal/service"
)

type stubInvites struct {
	sentEmail  string
	sentBy     string
	sendErr    error
	acceptedID string
	acceptErr  error
}

func (s *stubInvites) SendInvite(_ context.Context, email, invitedBy string) (model.Invite, error) {
	if s.sendErr != nil {
		return model.Invite{}, s.sendErr
	}
	s.sentEmail = email
	s.sentBy = invitedBy
	return model.Invite{ID: "inv-1", Email: email, Status: model.InviteStatusSent, InvitedBy: invitedBy}, nil
}

func (s *stubInvites) ResendInvite(context.Context, string) (model.Invite, error) {
	return model.Invite{}, nil
}

func (s *stubInvites) AcceptInvite(_ context.Context, id string) (model.Invite, error) {
	if s.acceptErr != nil {
		return model.Invite{}, s.acceptErr
	}
	s.acceptedID = id
	return model.Invite{ID: id, Status: model.InviteStatusAccepted}, nil
}

func (s *stubInvites) ListInvites(context.Context) ([]model.Invite, error) {
	return nil, nil
}

func webhookRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/invite", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	return req
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	stub := &stubInvites{}
	h := NewWebhookHandler(stub, "hook-secret", "Grow AI")
	rec := serve(t, h.Invite, webhookRequest(`{"email":"new@example.com"}`, "wrong"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if stub.sentEmail != "" {
		t.Fatal("invite must not be sent on signature mismatch")
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := NewWebhookHandler(&stubInvites{}, "hook-secret", "Grow AI")
	rec := serve(t, h.Invite, webhookRequest(`{"email":"new@example.com"}`, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestWebhookSendsWithConfiguredSource(t *testing.T) {
	stub := &stubInvites{}
	h := NewWebhookHandler(stub, "hook-secret", "Grow AI")
	rec := serve(t, h.Invite, webhookRequest(`{"email":"new@example.com","name":"New User","tag":"beta"}`, "hook-secret"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}
	if stub.sentEmail != "new@example.com" || stub.sentBy != "Grow AI" {
		t.Fatalf("send recorded %q by %q", stub.sentEmail, stub.sentBy)
	}
}

func TestWebhookSkipsCheckWithoutSecret(t *testing.T) {
	stub := &stubInvites{}
	h := NewWebhookHandler(stub, "", "Grow AI")
	rec := serve(t, h.Invite, webhookRequest(`{"email":"new@example.com"}`, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}
}

func TestWebhookMapsServiceFailures(t *testing.T) {
	h := NewWebhookHandler(&stubInvites{sendErr: service.ErrAlreadyActiveAccount}, "", "Grow AI")
	rec := serve(t, h.Invite, webhookRequest(`{"email":"new@example.com"}`, ""))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if decodeBody(t, rec)["code"] != "ALREADY_ACTIVE_ACCOUNT" {
		t.Fatalf("unexpected body %s", rec.Body)
	}
}
