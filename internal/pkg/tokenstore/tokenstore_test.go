package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meetapp/backend/internal/pkg/apperrors"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestSaveAndResolve(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, "tok-1", userID, time.Hour))

	got, err := store.Resolve(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Resolve(context.Background(), "nope")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestResolveExpiredToken(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", uuid.New(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Resolve(ctx, "tok-1")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRotate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, "old", userID, time.Hour))

	got, err := store.Rotate(ctx, "old", "new", time.Hour)
	require.NoError(t, err)
	require.Equal(t, userID, got)

	// Old token is gone, new token resolves
	_, err = store.Resolve(ctx, "old")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	got, err = store.Resolve(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestRotateUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Rotate(context.Background(), "missing", "new", time.Hour)
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", uuid.New(), time.Hour))
	require.NoError(t, store.Revoke(ctx, "tok-1"))

	_, err := store.Resolve(ctx, "tok-1")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	// Revoking again is a no-op
	require.NoError(t, store.Revoke(ctx, "tok-1"))
}
