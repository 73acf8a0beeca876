package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/logger"
	"github.com/reelrank/reelrank-server/internal/validation"
)

func TestAuthService_Register_Success(t *testing.T) {
	env := setupServices(t)

	u, err := env.auth.Register(context.Background(), RegisterRequest{Name: "  alice ", Password: "password123"})
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.Equal(t, "alice", u.Name)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	env := setupServices(t)
	env.user(t, "alice")

	_, err := env.auth.Register(context.Background(), RegisterRequest{Name: "alice", Password: "different123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestAuthService_Register_NormalizedDuplicate(t *testing.T) {
	env := setupServices(t)
	env.user(t, "ren\u00e9")

	_, err := env.auth.Register(context.Background(), RegisterRequest{Name: "rene\u0301", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestAuthService_Register_Concurrent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.auth.Register(ctx, RegisterRequest{Name: "racer", Password: "password123"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, domainerrors.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := setupServices(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"empty name", RegisterRequest{Name: "", Password: "password123"}},
		{"blank name", RegisterRequest{Name: "   ", Password: "password123"}},
		{"short password", RegisterRequest{Name: "bob", Password: "short"}},
		{"long password", RegisterRequest{Name: "bob", Password: strings.Repeat("a", 1025)}},
		// 600 runes but 1200 bytes: over the hasher's byte limit.
		{"multibyte password over byte limit", RegisterRequest{Name: "bob", Password: strings.Repeat("é", 600)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, 400, domainErr.HTTPStatus())
		})
	}
}

func TestAuthService_Register_MultibytePasswordAtByteLimit(t *testing.T) {
	env := setupServices(t)
	password := strings.Repeat("é", 512)

	_, err := env.auth.Register(context.Background(), RegisterRequest{Name: "bob", Password: password})
	require.NoError(t, err)

	_, err = env.auth.Login(context.Background(), LoginRequest{Name: "bob", Password: password})
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	env := setupServices(t)
	env.user(t, "alice")

	resp, err := env.auth.Login(context.Background(), LoginRequest{Name: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, TokenTypeBearer, resp.TokenType)
	assert.Equal(t, int64(30*60), resp.ExpiresIn)

	claims, err := env.auth.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	env := setupServices(t)
	env.user(t, "alice")

	_, err := env.auth.Login(context.Background(), LoginRequest{Name: "alice", Password: "wrong-password"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 401, domainErr.HTTPStatus())
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.Login(context.Background(), LoginRequest{Name: "ghost", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_MalformedInputIsInvalidCredentials(t *testing.T) {
	env := setupServices(t)
	env.user(t, "alice")

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"empty name", LoginRequest{Name: "", Password: "password123"}},
		{"empty password", LoginRequest{Name: "alice", Password: ""}},
		{"long name", LoginRequest{Name: strings.Repeat("a", 101), Password: "password123"}},
		{"long password", LoginRequest{Name: "alice", Password: strings.Repeat("é", 600)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
			assert.NotErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAuthService_VerifyToken_Expired(t *testing.T) {
	env := setupServices(t)
	env.user(t, "alice")

	resp, err := env.auth.Login(context.Background(), LoginRequest{Name: "alice", Password: "password123"})
	require.NoError(t, err)

	env.clock.now = env.clock.now.Add(31 * time.Minute)
	_, err = env.auth.VerifyToken(resp.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAuthService_VerifyToken_Garbage(t *testing.T) {
	env := setupServices(t)

	_, err := env.auth.VerifyToken("v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_StoreUnavailable(t *testing.T) {
	env := setupServices(t)
	svc := NewAuthService(unavailableStore{}, env.auth.hasher, env.tokens, validation.New(), logger.Discard())

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "alice", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)

	_, err = svc.Login(context.Background(), LoginRequest{Name: "alice", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
}
