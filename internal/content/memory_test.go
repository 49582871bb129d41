package content_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/content"
)

func TestMemoryStore_AddAndRetrieve(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()
	data := []byte("captured packet bytes")

	cid, err := store.Add(ctx, data, content.Metadata{Filename: "capture.pcap"})
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), cid, "cid is the hex sha256 of the bytes")

	got, err := store.Retrieve(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMemoryStore_AddIsIdempotent(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()
	data := []byte("same bytes")

	first, err := store.Add(ctx, data, content.Metadata{})
	require.NoError(t, err)
	second, err := store.Add(ctx, data, content.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMemoryStore_RetrieveUnknown(t *testing.T) {
	store := content.NewMemoryStore()

	_, err := store.Retrieve(context.Background(), "no-such-cid")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestMemoryStore_RetrieveFailsClosedOnCorruption(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	cid, err := store.Add(ctx, []byte("original"), content.Metadata{})
	require.NoError(t, err)

	// Corrupt the stored blob behind the store's back.
	store.Corrupt(cid, []byte("tampered"))

	_, err = store.Retrieve(ctx, cid)
	assert.ErrorIs(t, err, content.ErrHashMismatch)
}

func TestMemoryStore_Pin(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	cid, err := store.Add(ctx, []byte("keep me"), content.Metadata{})
	require.NoError(t, err)

	require.NoError(t, store.Pin(ctx, cid))
	assert.True(t, store.Pinned(cid))

	assert.ErrorIs(t, store.Pin(ctx, "no-such-cid"), content.ErrNotFound)
	assert.False(t, store.Pinned("no-such-cid"))
}
