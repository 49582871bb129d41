package activity_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

func newRecorderFixture(t *testing.T) (*activity.Recorder, *storage.Service, *models.Investigation) {
	t.Helper()
	db, err := storage.InitDB(filepath.Join(t.TempDir(), "case.db"))
	require.NoError(t, err)
	store := storage.NewService(db, nil)

	inv := &models.Investigation{Title: "Beacon traffic", CreatedBy: "alice"}
	require.NoError(t, store.CreateInvestigation(inv))

	return activity.NewRecorder(store, zap.NewNop().Sugar()), store, inv
}

func TestRecorder_AppendsRowAndPresence(t *testing.T) {
	rec, store, inv := newRecorderFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go rec.Run(ctx)

	rec.Record(activity.Mutation{
		InvestigationID: inv.ID,
		UserID:          "bob",
		Type:            models.ActivityStatusChanged,
		TargetType:      "investigation",
		TargetID:        inv.ID,
		Description:     "status changed active → completed",
		CorrelationID:   "req-42",
	})
	time.Sleep(100 * time.Millisecond)

	activities, err := store.ListActivities(inv.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityStatusChanged, activities[0].ActivityType)
	assert.Equal(t, "bob", activities[0].UserID)
	assert.Equal(t, "req-42", activities[0].CorrelationID)

	presence, err := store.GetPresence("bob")
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOnline, presence.Status)
}

func TestRecorder_ListenersSeeCommittedMutations(t *testing.T) {
	rec, _, inv := newRecorderFixture(t)

	var mu sync.Mutex
	var seen []activity.Mutation
	rec.AddListener(func(m activity.Mutation) {
		mu.Lock()
		seen = append(seen, m)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go rec.Run(ctx)

	rec.Record(activity.Mutation{
		InvestigationID: inv.ID, UserID: "bob", Type: models.ActivityCreated,
	})
	// Invalid mutation: the audit append fails, so listeners stay silent.
	rec.Record(activity.Mutation{InvestigationID: inv.ID})
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, models.ActivityCreated, seen[0].Type)
}

func TestRecorder_DrainsOnShutdown(t *testing.T) {
	rec, store, inv := newRecorderFixture(t)

	// Queue mutations before Run ever starts, then run under an already
	// cancelled context: the drain loop must still flush them.
	for i := 0; i < 5; i++ {
		rec.Record(activity.Mutation{
			InvestigationID: inv.ID, UserID: "bob", Type: models.ActivityComment,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Run(ctx)

	activities, err := store.ListActivities(inv.ID)
	require.NoError(t, err)
	assert.Len(t, activities, 5)
}
