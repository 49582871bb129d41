package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

func TestChatMessages_SoftDelete(t *testing.T) {
	store := newTestStore(t)
	inv := seedInvestigation(t, store)

	first := &models.ChatMessage{InvestigationID: inv.ID, SenderID: "alice", Content: "first"}
	second := &models.ChatMessage{InvestigationID: inv.ID, SenderID: "bob", Content: "second"}
	require.NoError(t, store.CreateChatMessage(first))
	require.NoError(t, store.CreateChatMessage(second))

	require.NoError(t, store.DeleteChatMessage(first.ID))

	messages, err := store.ListChatMessages(inv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "second", messages[0].Content)

	err = store.DeleteChatMessage("no-such-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateChatMessage_Validation(t *testing.T) {
	store := newTestStore(t)
	inv := seedInvestigation(t, store)

	err := store.CreateChatMessage(&models.ChatMessage{InvestigationID: inv.ID, SenderID: "alice"})
	assert.ErrorIs(t, err, storage.ErrValidation)

	err = store.CreateChatMessage(&models.ChatMessage{InvestigationID: "missing", SenderID: "alice", Content: "hi"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
