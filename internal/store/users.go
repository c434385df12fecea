package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ECOTRACE_BACK-END/internal/models"
)

// Store provides keyed CRUD access to the three record types over a
// pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store backed by the given pool
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const userColumns = `id, token_hash, is_anonymous, created_at, last_active,
	email, password_hash, name, email_verified`

// CreateUser inserts a new user row. Returns ErrDuplicateKey when the
// token hash or email is already taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, token_hash, is_anonymous, created_at, last_active,
		 email, password_hash, name, email_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.TokenHash, user.IsAnonymous, user.CreatedAt, user.LastActive,
		user.Email, user.PasswordHash, user.Name, user.EmailVerified)
	return mapError(err)
}

// GetUserByID looks a user up by primary key
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByTokenHash looks a user up by the hash of their current token
func (s *Store) GetUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE token_hash = $1`, tokenHash)
}

// GetUserByEmail looks a user up by their case-normalized email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.TokenHash, &user.IsAnonymous, &user.CreatedAt, &user.LastActive,
		&user.Email, &user.PasswordHash, &user.Name, &user.EmailVerified)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// RotateUserToken replaces the stored token hash for a user, invalidating
// the previously issued token, and refreshes last_active.
func (s *Store) RotateUserToken(ctx context.Context, id, tokenHash string, lastActive time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET token_hash = $2, last_active = $3 WHERE id = $1`,
		id, tokenHash, lastActive)
	return mapError(err)
}

// TouchLastActive refreshes a user's last_active timestamp
func (s *Store) TouchLastActive(ctx context.Context, id string, lastActive time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET last_active = $2 WHERE id = $1`,
		id, lastActive)
	return mapError(err)
}
