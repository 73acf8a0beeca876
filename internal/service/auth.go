package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reelrank/reelrank-server/internal/auth"
	"github.com/reelrank/reelrank-server/internal/domain"
	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/metrics"
	"github.com/reelrank/reelrank-server/internal/store"
	"github.com/reelrank/reelrank-server/internal/validation"
)

// TokenTypeBearer is the token_type reported on login.
const TokenTypeBearer = "bearer"

// AuthService registers users, checks credentials, and issues and verifies access tokens.
type AuthService struct {
	store     store.UserStore
	hasher    *auth.Hasher
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users store.UserStore,
	hasher *auth.Hasher,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		logger:    orDiscard(logger),
	}
}

// RegisterRequest contains the data for a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,username,max=100"`
	Password string `json:"password" validate:"required,min=8,maxbytes=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,maxbytes=1024"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Identity is an authenticated caller.
type Identity struct {
	UserID int64
	Name   string
}

// Register creates an account. A taken name yields CONFLICT, both on the
// advisory pre-check and when a concurrent registration wins the insert.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	name := domain.NormalizeUserName(req.Name)

	exists, err := s.store.UserExists(ctx, name)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, storeFailure("check user", err)
	}
	if exists {
		metrics.Registrations.WithLabelValues("conflict").Inc()
		return nil, domainerrors.Conflict("username already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, domainerrors.Internal("failed to hash password").WithCause(err)
	}

	user := &domain.User{
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			metrics.Registrations.WithLabelValues("conflict").Inc()
			s.logger.Warn("registration lost uniqueness race", "name", name)
			return nil, domainerrors.Conflict("username already exists")
		}
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, storeFailure("create user", err)
	}

	metrics.Registrations.WithLabelValues("created").Inc()
	s.logger.Info("user registered", "user_id", user.ID, "name", user.Name)

	return user, nil
}

// Authenticate checks credentials. Unknown names and wrong passwords are
// indistinguishable to the caller, including in how long they take.
func (s *AuthService) Authenticate(ctx context.Context, name, password string) (*Identity, error) {
	name = domain.NormalizeUserName(name)

	user, err := s.store.GetUserByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		s.hasher.VerifyDummy(password)
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	case err != nil:
		return nil, storeFailure("get user", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	return &Identity{UserID: user.ID, Name: user.Name}, nil
}

// Login authenticates and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	// Login fails only one way: input no account could match is bad credentials.
	if err := s.validator.Validate(req); err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	identity, err := s.Authenticate(ctx, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			metrics.Logins.WithLabelValues("failure").Inc()
			s.logger.Info("login failed", "name", domain.NormalizeUserName(req.Name))
		} else {
			metrics.Logins.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	issued, err := s.tokens.Issue(identity.Name)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, domainerrors.Internal("failed to issue token").WithCause(err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", "user_id", identity.UserID, "token_id", issued.TokenID)

	return &TokenResponse{
		AccessToken: issued.Token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokens.Lifetime().Seconds()),
		ExpiresAt:   issued.ExpiresAt,
	}, nil
}

// VerifyToken checks an access token without touching the store.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, auth.ErrTokenExpired):
		return nil, domainerrors.TokenExpired("token has expired")
	default:
		return nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}
}
