package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

func newTestStore(t *testing.T) *storage.Service {
	t.Helper()
	db, err := storage.InitDB(filepath.Join(t.TempDir(), "case.db"))
	require.NoError(t, err)
	return storage.NewService(db, nil)
}

func seedInvestigation(t *testing.T, store *storage.Service) *models.Investigation {
	t.Helper()
	inv := &models.Investigation{Title: "Suspicious beacon traffic", CreatedBy: "alice"}
	require.NoError(t, store.CreateInvestigation(inv))
	return inv
}
