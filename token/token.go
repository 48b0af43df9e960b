// Package token issues and verifies the signed credential carried in the
// auth cookie. The token is the whole session: nothing is stored server side,
// so clearing the cookie does not invalidate a copy of the token.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie that carries the credential.
const CookieName = "token"

// DefaultTTL is the lifetime of an issued credential.
const DefaultTTL = time.Hour

var (
	// ErrMissingToken means the request carried no credential.
	ErrMissingToken = errors.New("token: missing")
	// ErrInvalidToken covers bad signatures, wrong algorithms, malformed and expired tokens.
	ErrInvalidToken = errors.New("token: invalid")
)

// Claims is the decoded payload: the client-supplied fields plus iat and exp.
type Claims = jwt.MapClaims

// Config configures a Service.
type Config struct {
	Secret       []byte
	TTL          time.Duration
	CookieSecure bool
}

// Service signs credentials with an HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewService returns a Service; an empty secret is rejected.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: empty secret")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Service{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		secure: cfg.CookieSecure,
		now:    time.Now,
	}, nil
}

// TTL reports the credential lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs payload as-is, adding iat and exp. Client-supplied iat and exp
// are overwritten.
func (s *Service) Issue(payload map[string]any) (string, error) {
	now := s.now()
	claims := make(jwt.MapClaims, len(payload)+2)
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
func (s *Service) Verify(raw string) (Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// FromRequest returns the credential from the request cookie, or "".
func FromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetCookie writes the credential cookie: script-inaccessible, HTTPS-only when
// configured, and sent on cross-site requests.
func (s *Service) SetCookie(w http.ResponseWriter, raw string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    raw,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
	})
}

// ClearCookie tells the client to drop the credential cookie immediately.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
	})
}

// Browsers drop SameSite=None cookies that are not Secure, so plain-HTTP
// development falls back to Lax.
func (s *Service) sameSite() http.SameSite {
	if s.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
