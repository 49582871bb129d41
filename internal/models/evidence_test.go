package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/models"
)

func TestCustody_EmptyChain(t *testing.T) {
	item := &models.EvidenceItem{}

	records, err := item.Custody()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendCustody_FreshItem(t *testing.T) {
	// Items are built and annotated before they are persisted, so the
	// chain column has no default yet at the first append.
	item := &models.EvidenceItem{Title: "pcap dump"}

	require.NoError(t, item.AppendCustody(models.CustodyRecord{
		Actor:     "alice",
		Action:    "collected",
		Timestamp: time.Now().UTC(),
	}))

	records, err := item.Custody()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Actor)
	assert.Equal(t, "collected", records[0].Action)
}

func TestAppendCustody_Extends(t *testing.T) {
	item := &models.EvidenceItem{}
	require.NoError(t, item.AppendCustody(models.CustodyRecord{Actor: "alice", Action: "collected"}))
	require.NoError(t, item.AppendCustody(models.CustodyRecord{Actor: "bob", Action: "reviewed"}))

	records, err := item.Custody()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "collected", records[0].Action)
	assert.Equal(t, "reviewed", records[1].Action)
}
