package relay_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"relaynode/backend/internal/relay"
)

func storedEvent(id string, kind int) *relay.Event {
	return &relay.Event{ID: id, Kind: kind}
}

func TestEventStore_InsertAndDuplicate(t *testing.T) {
	store := relay.NewEventStore(10)

	assert.True(t, store.Insert(storedEvent("a", 1)))
	assert.False(t, store.Insert(storedEvent("a", 1)), "same id is a duplicate")
	assert.True(t, store.Has("a"))
	assert.Equal(t, 1, store.Len())
}

func TestEventStore_EvictsOldest(t *testing.T) {
	store := relay.NewEventStore(3)
	for i := 0; i < 4; i++ {
		store.Insert(storedEvent(fmt.Sprintf("ev%d", i), 1))
	}

	assert.Equal(t, 3, store.Len())
	assert.False(t, store.Has("ev0"), "oldest evicted")
	assert.True(t, store.Has("ev3"))

	// The evicted id may be inserted again.
	assert.True(t, store.Insert(storedEvent("ev0", 1)))
}

func TestEventStore_SteadyStateKeepsArrivalOrder(t *testing.T) {
	store := relay.NewEventStore(3)

	// Push well past capacity so the slots wrap repeatedly.
	for i := 0; i < 10; i++ {
		assert.True(t, store.Insert(storedEvent(fmt.Sprintf("ev%d", i), 1)))
	}

	assert.Equal(t, 3, store.Len())
	for i := 0; i < 7; i++ {
		assert.False(t, store.Has(fmt.Sprintf("ev%d", i)))
	}

	got := store.Query(nil, 0)
	assert.Len(t, got, 3)
	assert.Equal(t, "ev7", got[0].ID)
	assert.Equal(t, "ev8", got[1].ID)
	assert.Equal(t, "ev9", got[2].ID)
}

func TestEventStore_QueryArrivalOrderAndLimit(t *testing.T) {
	store := relay.NewEventStore(10)
	store.Insert(storedEvent("a", 1))
	store.Insert(storedEvent("b", 4))
	store.Insert(storedEvent("c", 1))

	got := store.Query([]relay.Filter{{Kinds: []int{1}}}, 0)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	got = store.Query(nil, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}
