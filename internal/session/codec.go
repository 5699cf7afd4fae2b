package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie that carries the serialized session.
const CookieName = "admin_session"

// ErrNoSession is returned when a request carries no session at all.
// Malformed payloads decode to ordinary errors; both cases are
// treated as unauthenticated by callers, never as a crash.
var ErrNoSession = errors.New("no session")

// EncodeCookie serializes the session as URL-encoded JSON suitable
// for a client-readable cookie value.
func EncodeCookie(s Session) string {
	b, _ := json.Marshal(s)
	return url.QueryEscape(string(b))
}

// DecodeCookie parses a cookie value produced by EncodeCookie.  Any
// unparseable or incomplete payload yields an error.
func DecodeCookie(value string) (Session, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return Session{}, errors.New("invalid session encoding")
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, errors.New("invalid session format")
	}
	if s.ID == "" || s.ExpiresAt.IsZero() {
		return Session{}, errors.New("incomplete session payload")
	}
	return s, nil
}

// SignToken encodes the session as an HS256 JWT for API clients that
// authenticate with an Authorization header instead of the cookie.
// The claims mirror the cookie fields; exp is the session expiry.
func SignToken(secret string, s Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   s.ID,
		"email": s.Email,
		"role":  s.Role,
		"iat":   s.CreatedAt.Unix(),
		"exp":   s.ExpiresAt.Unix(),
	}
	if !s.LastRefreshed.IsZero() {
		claims["last_refreshed"] = s.LastRefreshed.Unix()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates a bearer token produced by SignToken and
// rebuilds the session from its claims.  Expiry is deliberately NOT
// rejected here: expired sessions must be distinguishable from
// malformed ones so the gate can answer SESSION_EXPIRED instead of a
// generic unauthenticated error.
func ParseToken(secret, raw string) (Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !tok.Valid {
		return Session{}, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid claims")
	}
	s := Session{
		ID:    claimString(claims, "sub"),
		Email: claimString(claims, "email"),
		Role:  claimString(claims, "role"),
	}
	if s.ID == "" {
		return Session{}, errors.New("missing subject")
	}
	if v, ok := claims["iat"].(float64); ok {
		s.CreatedAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := claims["exp"].(float64); ok {
		s.ExpiresAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := claims["last_refreshed"].(float64); ok {
		s.LastRefreshed = time.Unix(int64(v), 0).UTC()
	}
	if s.ExpiresAt.IsZero() {
		return Session{}, errors.New("missing expiry")
	}
	return s, nil
}

// FromRequest extracts a session from an inbound request, preferring
// an Authorization bearer token over the session cookie.  It returns
// ErrNoSession when neither transport is present.
func FromRequest(r *http.Request, secret string) (Session, error) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return ParseToken(secret, strings.TrimPrefix(auth, "Bearer "))
	}
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return Session{}, ErrNoSession
	}
	return DecodeCookie(ck.Value)
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
