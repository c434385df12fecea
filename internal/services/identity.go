package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/store"
	"ECOTRACE_BACK-END/internal/token"
)

// ErrInvalidToken is returned when a presented token fails verification
var ErrInvalidToken = errors.New("invalid token format or signature")

// UserStore is the storage collaborator for user records
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	RotateUserToken(ctx context.Context, id, tokenHash string, lastActive time.Time) error
	TouchLastActive(ctx context.Context, id string, lastActive time.Time) error
}

// IdentityService maps signed tokens to durable user records, creating
// anonymous users on first sight.
type IdentityService struct {
	codec  *token.Codec
	users  UserStore
	logger *zap.Logger
}

// NewIdentityService creates a new IdentityService instance
func NewIdentityService(codec *token.Codec, users UserStore, logger *zap.Logger) *IdentityService {
	return &IdentityService{codec: codec, users: users, logger: logger}
}

// newAnonymousUserID generates an id in the anonymous namespace
func newAnonymousUserID() string {
	u := uuid.New()
	return fmt.Sprintf("user_%x", u[:6])
}

// ResolveOrCreate returns the user owning the given token, creating a new
// anonymous user on first sight. Returns ErrInvalidToken when the token
// does not verify.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, tokenStr string) (*models.User, error) {
	if !s.codec.Verify(tokenStr) {
		return nil, ErrInvalidToken
	}

	tokenHash := token.HashForStorage(tokenStr)

	user, err := s.users.GetUserByTokenHash(ctx, tokenHash)
	if err == nil {
		now := time.Now().UTC()
		if err := s.users.TouchLastActive(ctx, user.ID, now); err != nil {
			return nil, fmt.Errorf("failed to refresh last_active: %w", err)
		}
		user.LastActive = now
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by token: %w", err)
	}

	now := time.Now().UTC()
	newUser := &models.User{
		ID:          newAnonymousUserID(),
		TokenHash:   tokenHash,
		IsAnonymous: true,
		CreatedAt:   now,
		LastActive:  now,
	}

	if err := s.users.CreateUser(ctx, newUser); err != nil {
		// A concurrent first-contact request may have inserted the same
		// token hash between our lookup and insert. The unique constraint
		// makes that a duplicate key, which means the row exists now.
		if errors.Is(err, store.ErrDuplicateKey) {
			s.logger.Debug("anonymous user already created concurrently",
				zap.String("token_hash", tokenHash))
			existing, err := s.users.GetUserByTokenHash(ctx, tokenHash)
			if err != nil {
				return nil, fmt.Errorf("failed to re-fetch user after duplicate insert: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create anonymous user: %w", err)
	}
	return newUser, nil
}

// ResolveByToken is the read-only variant used by auth checks. It returns
// nil (without error) when the token is invalid or matches no user of the
// expected kind; authenticated-shaped tokens must resolve to a registered
// user and anonymous-shaped tokens to an anonymous one.
func (s *IdentityService) ResolveByToken(ctx context.Context, tokenStr string) (*models.User, error) {
	payload := s.codec.Decode(tokenStr)
	if payload == nil {
		return nil, nil
	}

	if payload.IsAuthenticated() {
		user, err := s.users.GetUserByID(ctx, payload.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up user by id: %w", err)
		}
		if user.IsAnonymous {
			return nil, nil
		}
		return user, nil
	}

	user, err := s.users.GetUserByTokenHash(ctx, token.HashForStorage(tokenStr))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by token: %w", err)
	}
	if !user.IsAnonymous {
		return nil, nil
	}
	return user, nil
}

// IsAuthenticated reports whether the token belongs to a registered user
func (s *IdentityService) IsAuthenticated(ctx context.Context, tokenStr string) bool {
	user, err := s.ResolveByToken(ctx, tokenStr)
	if err != nil {
		s.logger.Warn("auth check failed", zap.Error(err))
		return false
	}
	return user != nil && !user.IsAnonymous
}

// MintAnonymousToken issues a fresh anonymous token without touching
// storage; the matching user row is created on the token's first use.
func (s *IdentityService) MintAnonymousToken() (string, error) {
	return s.codec.GenerateAnonymous()
}

// VerifyToken reports whether a token has a valid structure and signature
func (s *IdentityService) VerifyToken(tokenStr string) bool {
	return s.codec.Verify(tokenStr)
}
