package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ECOTRACE_BACK-END/internal/token"
)

func TestResolveOrCreateCreatesAnonymousUser(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	tokenStr, err := codec.GenerateAnonymous()
	require.NoError(t, err)

	user, err := identity.ResolveOrCreate(ctx, tokenStr)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsAnonymous)
	assert.True(t, strings.HasPrefix(user.ID, "user_"))
	assert.Equal(t, token.HashForStorage(tokenStr), user.TokenHash)
}

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	tokenStr, err := codec.GenerateAnonymous()
	require.NoError(t, err)

	first, err := identity.ResolveOrCreate(ctx, tokenStr)
	require.NoError(t, err)
	second, err := identity.ResolveOrCreate(ctx, tokenStr)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)
}

func TestResolveOrCreateRejectsInvalidToken(t *testing.T) {
	users := newFakeUserStore()
	identity, _ := newTestIdentity(users)

	_, err := identity.ResolveOrCreate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, users.users)
}

func TestResolveOrCreateSurvivesInsertRace(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	tokenStr, err := codec.GenerateAnonymous()
	require.NoError(t, err)

	// The winner of the race already inserted the row, but our first
	// lookup happened before that insert landed
	winner, err := identity.ResolveOrCreate(ctx, tokenStr)
	require.NoError(t, err)
	users.lookupMisses = 1

	resolved, err := identity.ResolveOrCreate(ctx, tokenStr)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, resolved.ID)
	assert.Len(t, users.users, 1)
}

func TestResolveByTokenAnonymous(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	tokenStr, err := codec.GenerateAnonymous()
	require.NoError(t, err)

	// Unknown anonymous token resolves to no one without erroring
	user, err := identity.ResolveByToken(ctx, tokenStr)
	require.NoError(t, err)
	assert.Nil(t, user)

	created, err := identity.ResolveOrCreate(ctx, tokenStr)
	require.NoError(t, err)

	user, err = identity.ResolveByToken(ctx, tokenStr)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
}

func TestResolveByTokenAuthenticated(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	userID, tokenStr := registerTestUser(users, codec, "a@example.com")

	user, err := identity.ResolveByToken(ctx, tokenStr)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.False(t, user.IsAnonymous)
}

func TestResolveByTokenRejectsInvalid(t *testing.T) {
	users := newFakeUserStore()
	identity, _ := newTestIdentity(users)

	user, err := identity.ResolveByToken(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveByTokenKindMismatch(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	// An authenticated-shaped token naming an anonymous user's id must not
	// resolve
	anonToken, err := codec.GenerateAnonymous()
	require.NoError(t, err)
	anonUser, err := identity.ResolveOrCreate(ctx, anonToken)
	require.NoError(t, err)

	forged, err := codec.GenerateAuthenticated(anonUser.ID)
	require.NoError(t, err)
	user, err := identity.ResolveByToken(ctx, forged)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestIsAuthenticated(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)
	ctx := context.Background()

	anonToken, err := codec.GenerateAnonymous()
	require.NoError(t, err)
	_, err = identity.ResolveOrCreate(ctx, anonToken)
	require.NoError(t, err)
	assert.False(t, identity.IsAuthenticated(ctx, anonToken))

	_, authToken := registerTestUser(users, codec, "a@example.com")
	assert.True(t, identity.IsAuthenticated(ctx, authToken))

	assert.False(t, identity.IsAuthenticated(ctx, "garbage"))
}

func TestMintAnonymousToken(t *testing.T) {
	users := newFakeUserStore()
	identity, codec := newTestIdentity(users)

	minted, err := identity.MintAnonymousToken()
	require.NoError(t, err)
	assert.True(t, codec.Verify(minted))

	// Minting touches no storage; the row appears on first use
	assert.Empty(t, users.users)
}
