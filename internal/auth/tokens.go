package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/reelrank/reelrank-server/internal/id"
)

const (
	tokenIssuer   = "reelrank-server"
	tokenAudience = "reelrank-client"
)

// Token verification failures.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenService issues and verifies PASETO v4.local access tokens bound to a username.
// It is stateless: verification never consults the store.
type TokenService struct {
	key      paseto.V4SymmetricKey
	lifetime time.Duration
	now      func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, lifetime time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", KeySize, len(key))
	}
	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	symmetric, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	s := &TokenService{key: symmetric, lifetime: lifetime, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a token for username that expires after the configured lifetime.
func (s *TokenService) Issue(username string) (*IssuedToken, error) {
	if username == "" {
		return nil, errors.New("cannot issue a token without a username")
	}

	// PASETO timestamps are RFC 3339 with second precision.
	now := s.now().UTC().Truncate(time.Second)
	expires := now.Add(s.lifetime)

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return nil, fmt.Errorf("generate token ID: %w", err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(username)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(tokenID)

	return &IssuedToken{
		Token:     token.V4Encrypt(s.key, nil),
		TokenID:   tokenID,
		ExpiresAt: expires,
	}, nil
}

// Verify decrypts raw and checks issuer, audience and validity window.
// Expiry yields ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	// Time rules are checked below against s.now so expiry is reported distinctly.
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.key, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	subject, err := token.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	expires, err := token.GetExpiration()
	if err != nil {
		return nil, fmt.Errorf("%w: missing expiration", ErrTokenInvalid)
	}

	now := s.now()
	if notBefore, err := token.GetNotBefore(); err == nil && now.Before(notBefore) {
		return nil, fmt.Errorf("%w: not yet valid", ErrTokenInvalid)
	}
	if !now.Before(expires) {
		return nil, ErrTokenExpired
	}

	claims := &Claims{Username: subject, ExpiresAt: expires}
	if jti, err := token.GetJti(); err == nil {
		claims.TokenID = jti
	}
	if issued, err := token.GetIssuedAt(); err == nil {
		claims.IssuedAt = issued
	}
	return claims, nil
}

// Lifetime returns the configured access token lifetime.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}
