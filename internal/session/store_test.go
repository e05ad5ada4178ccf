package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/proteinpal/internal/models"
	"github.com/pageza/proteinpal/internal/testhelpers"
)

func TestGormStoreRoundTrip(t *testing.T) {
	store := NewGormStore(testhelpers.SetupSQLiteDB(t))
	ctx := context.Background()

	sess := &models.Session{Token: "tok", UserID: 4, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))
	require.NotEqual(t, uuid.Nil, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, int64(4), got.UserID)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreLatestSkipsExpired(t *testing.T) {
	store := NewGormStore(testhelpers.SetupSQLiteDB(t))
	ctx := context.Background()
	now := time.Now()

	older := &models.Session{Token: "old", UserID: 1, ExpiresAt: now.Add(time.Hour), CreatedAt: now.Add(-2 * time.Hour)}
	newer := &models.Session{Token: "new", UserID: 1, ExpiresAt: now.Add(time.Hour), CreatedAt: now.Add(-time.Hour)}
	expired := &models.Session{Token: "gone", UserID: 1, ExpiresAt: now.Add(-time.Minute), CreatedAt: now}
	for _, s := range []*models.Session{older, newer, expired} {
		require.NoError(t, store.Save(ctx, s))
	}

	latest, err := store.Latest(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.Token)

	n, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormStoreLatestEmpty(t *testing.T) {
	store := NewGormStore(testhelpers.SetupSQLiteDB(t))
	_, err := store.Latest(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStorePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := NewGormStore(testhelpers.SetupPostgresDB(t))
	ctx := context.Background()

	sess := &models.Session{Token: "tok", UserID: 9, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	latest, err := store.Latest(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, sess.ID, latest.ID)
}
