package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/growai/arbitrageos-admin/internal/service"
)

func TestCallbackRecordsAcceptanceAndRedirects(t *testing.T) {
	stub := &stubInvites{}
	h := NewInviteHandler(stub, "https://app.example.com")
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/callback?invite_id=inv-42&next=/dashboard", nil)
	rec := serve(t, h.Callback, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://app.example.com/dashboard" {
		t.Fatalf("redirect = %q", got)
	}
	if stub.acceptedID != "inv-42" {
		t.Fatalf("acceptedID = %q, want inv-42", stub.acceptedID)
	}
}

func TestCallbackIgnoresAbsoluteNextTargets(t *testing.T) {
	h := NewInviteHandler(&stubInvites{}, "https://app.example.com")
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/callback?next=https://evil.example.com", nil)
	rec := serve(t, h.Callback, req)

	if got := rec.Header().Get("Location"); got != "https://app.example.com/" {
		t.Fatalf("redirect = %q, want base origin root", got)
	}
}

func TestCallbackFailureRedirectsToLogin(t *testing.T) {
	h := NewInviteHandler(&stubInvites{acceptErr: service.ErrInviteNotFound}, "https://app.example.com")
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/callback?invite_id=inv-gone", nil)
	rec := serve(t, h.Callback, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://app.example.com/login?error=invite+could+not+be+confirmed" {
		t.Fatalf("redirect = %q", got)
	}
}
