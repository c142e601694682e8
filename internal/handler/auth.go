package handler

// auth.go issues and checks the session token that the shell passes with each request

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/hkdf"
)

const (
	tokenIssuer = "todoql"
	hkdfInfo    = "todoql session token v1"
)

// ErrUnauthorized is returned by Verify for a missing, expired or forged token
var ErrUnauthorized = errors.New("unauthorized")

// Auth signs session tokens (HS256 JWTs) with a key derived from a secret
type Auth struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewAuth derives the signing key from secret (which should be long and random) - tokens expire after ttl
func NewAuth(secret string, ttl time.Duration) (*Auth, error) {
	if secret == "" {
		return nil, errors.New("auth secret must not be empty")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("%w deriving token key", err)
	}
	return &Auth{key: key, ttl: ttl, now: time.Now}, nil
}

// Token returns a new token for the named session (eg the shell's window)
func (a *Auth) Token(session string) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   session,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	})
	return token.SignedString(a.key)
}

// Verify checks the token and returns the session it was issued for
func (a *Auth) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil || !token.Valid || !claims.VerifyIssuer(tokenIssuer, true) {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// authorized checks the token of a request, if auth is on.  The token is in the Authorization header
// or (for websockets, where browsers can't set headers) the "token" query parameter.
func (h *Handler) authorized(r *http.Request) bool {
	if h.auth == nil {
		return true
	}
	tokenString := r.URL.Query().Get("token")
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = authHeader[len("Bearer "):]
	}
	if tokenString == "" {
		return false
	}
	session, err := h.auth.Verify(tokenString)
	if err != nil {
		h.log.WithField("remote", r.RemoteAddr).Warn("rejected request with invalid session token")
		return false
	}
	h.log.WithField("session", session).Trace("authorized")
	return true
}
