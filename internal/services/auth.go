package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/security"
	"ECOTRACE_BACK-END/internal/store"
	"ECOTRACE_BACK-END/internal/token"
)

// The same message is returned for unknown email, anonymous-only account
// and password mismatch so a caller cannot probe which part was wrong.
const invalidCredentialsMessage = "Invalid email or password"

// AuthResult reports the outcome of a registration or login attempt.
// Business-rule failures set OK=false with a user-facing message; storage
// failures are returned as errors instead.
type AuthResult struct {
	OK      bool
	Message string
	Token   string
	User    *models.User
}

// AuthService handles user registration and login
type AuthService struct {
	codec  *token.Codec
	hasher *security.PasswordHasher
	users  UserStore
	logger *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(codec *token.Codec, hasher *security.PasswordHasher, users UserStore, logger *zap.Logger) *AuthService {
	return &AuthService{codec: codec, hasher: hasher, users: users, logger: logger}
}

// newAccountUserID generates an id in the registered-account namespace,
// distinct from the anonymous "user_" prefix.
func newAccountUserID() string {
	u := uuid.New()
	return fmt.Sprintf("acct_%x", u[:8])
}

// Register creates a new registered account and issues its first token
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return AuthResult{Message: "Email already registered"}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("failed to check email: %w", err)
	}

	if len(password) < security.MinPasswordLength {
		return AuthResult{Message: fmt.Sprintf("Password must be at least %d characters", security.MinPasswordLength)}, nil
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := newAccountUserID()
	authToken, err := s.codec.GenerateAuthenticated(userID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           userID,
		TokenHash:    token.HashForStorage(authToken),
		IsAnonymous:  false,
		CreatedAt:    now,
		LastActive:   now,
		Email:        &email,
		PasswordHash: &passwordHash,
		Name:         name,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent registration with the same email loses the race
		// on the unique constraint; report it like any duplicate email.
		if errors.Is(err, store.ErrDuplicateKey) {
			return AuthResult{Message: "Email already registered"}, nil
		}
		return AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", userID))
	return AuthResult{OK: true, Message: "Account created successfully", Token: authToken, User: user}, nil
}

// Login authenticates an email/password pair, rotates the account's token
// hash and returns the newly issued token. The previous token no longer
// resolves for anonymous-style lookups once rotated.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return AuthResult{Message: invalidCredentialsMessage}, nil
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsAnonymous || user.PasswordHash == nil || !s.hasher.Verify(password, *user.PasswordHash) {
		return AuthResult{Message: invalidCredentialsMessage}, nil
	}

	authToken, err := s.codec.GenerateAuthenticated(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.RotateUserToken(ctx, user.ID, token.HashForStorage(authToken), now); err != nil {
		return AuthResult{}, fmt.Errorf("failed to rotate token: %w", err)
	}
	user.TokenHash = token.HashForStorage(authToken)
	user.LastActive = now

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return AuthResult{OK: true, Message: "Login successful", Token: authToken, User: user}, nil
}
