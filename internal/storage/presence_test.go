package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

func TestUpsertPresence(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertPresence("alice", models.PresenceOnline))

	got, err := store.GetPresence("alice")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOnline, got.Status)
	first := got.LastSeen

	// Upsert, not insert: the row is refreshed in place.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.UpsertPresence("alice", models.PresenceAway))

	got, err = store.GetPresence("alice")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceAway, got.Status)
	assert.True(t, got.LastSeen.After(first))

	_, err = store.GetPresence("nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSweepStalePresence(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertPresence("fresh", models.PresenceOnline))

	stale := models.UserPresence{
		UserID:   "stale",
		Status:   models.PresenceOnline,
		LastSeen: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, store.DB.Create(&stale).Error)

	n, err := store.SweepStalePresence(15 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetPresence("stale")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOffline, got.Status)

	got, err = store.GetPresence("fresh")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOnline, got.Status)
}
