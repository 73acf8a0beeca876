package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/reelrank/reelrank-server/internal/auth"
	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	claimsKey  ctxKey = "claims"
	authErrKey ctxKey = "authErr"
)

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// GetUsername returns the authenticated user name from context.
// Returns a 401 error if the request carried no valid token.
func GetUsername(ctx context.Context) (string, error) {
	if err, ok := ctx.Value(authErrKey).(error); ok {
		return "", err
	}
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims.Username == "" {
		return "", domainerrors.Unauthorized("authentication required")
	}
	return claims.Username, nil
}

// authMiddleware validates Bearer tokens and stores the claims in context.
// Requests without a token continue anonymously; a bad token is remembered so
// protected handlers can report why it was rejected. Public routes ignore it.
func authMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			scheme, token, found := strings.Cut(header, " ")
			switch {
			case !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "":
				ctx = context.WithValue(ctx, authErrKey, domainerrors.Unauthorized("invalid authorization header format"))
			default:
				claims, err := verifier.VerifyToken(strings.TrimSpace(token))
				if err != nil {
					ctx = context.WithValue(ctx, authErrKey, err)
				} else {
					ctx = context.WithValue(ctx, claimsKey, claims)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
