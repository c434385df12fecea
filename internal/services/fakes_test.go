package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/store"
	"ECOTRACE_BACK-END/internal/token"
)

// fakeUserStore is an in-memory UserStore with the same duplicate-key and
// not-found behavior as the real one.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	// lookupMisses forces the next N GetUserByTokenHash calls to report
	// not-found even when the row exists, to simulate insert races
	lookupMisses int
	touchErr     error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.TokenHash == user.TokenHash {
			return store.ErrDuplicateKey
		}
		if existing.Email != nil && user.Email != nil && *existing.Email == *user.Email {
			return store.ErrDuplicateKey
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupMisses > 0 {
		f.lookupMisses--
		return nil, store.ErrNotFound
	}
	for _, user := range f.users {
		if user.TokenHash == tokenHash {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email != nil && *user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) RotateUserToken(ctx context.Context, id, tokenHash string, lastActive time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.TokenHash = tokenHash
	user.LastActive = lastActive
	return nil
}

func (f *fakeUserStore) TouchLastActive(ctx context.Context, id string, lastActive time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touchErr != nil {
		return f.touchErr
	}
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.LastActive = lastActive
	return nil
}

// fakeEntryStore is an in-memory HistoryEntryStore returning entries newest
// first, like the real one.
type fakeEntryStore struct {
	mu          sync.Mutex
	entries     []models.HistoryEntry
	comparisons []models.ComparisonEntry
}

func (f *fakeEntryStore) InsertHistoryEntry(ctx context.Context, entry *models.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]models.HistoryEntry{*entry}, f.entries...)
	return nil
}

func (f *fakeEntryStore) InsertComparisonEntry(ctx context.Context, entry *models.ComparisonEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comparisons = append([]models.ComparisonEntry{*entry}, f.comparisons...)
	return nil
}

func (f *fakeEntryStore) ListHistoryEntries(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.HistoryEntry
	for _, entry := range f.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (f *fakeEntryStore) ListComparisonEntries(ctx context.Context, userID string) ([]models.ComparisonEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.ComparisonEntry
	for _, entry := range f.comparisons {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// analysisJSON builds a minimal analysis payload with the fields analytics
// reads back
func analysisJSON(name, category string, score int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"eco_score":%d,"product_info":{"name":%q,"category":%q}}`,
		score, name, category,
	))
}

func newTestIdentity(users *fakeUserStore) (*IdentityService, *token.Codec) {
	codec := token.NewCodec("test-secret-key")
	return NewIdentityService(codec, users, zap.NewNop()), codec
}

// registerTestUser inserts a registered user and returns their id and a
// matching authenticated token
func registerTestUser(users *fakeUserStore, codec *token.Codec, email string) (string, string) {
	id := "acct_" + email
	tokenStr, err := codec.GenerateAuthenticated(id)
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC()
	passwordHash := "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"
	users.users[id] = &models.User{
		ID:           id,
		TokenHash:    token.HashForStorage(tokenStr),
		IsAnonymous:  false,
		CreatedAt:    now,
		LastActive:   now,
		Email:        &email,
		PasswordHash: &passwordHash,
	}
	return id, tokenStr
}
