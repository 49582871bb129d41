package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

func TestAddTeamMember_DuplicatePair(t *testing.T) {
	store := newTestStore(t)
	inv := seedInvestigation(t, store)

	require.NoError(t, store.AddTeamMember(&models.TeamMember{
		InvestigationID: inv.ID, UserID: "bob", Role: models.RoleAnalyst,
	}))

	err := store.AddTeamMember(&models.TeamMember{
		InvestigationID: inv.ID, UserID: "bob", Role: models.RoleObserver,
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	// Same user on another investigation is fine.
	other := seedInvestigation(t, store)
	assert.NoError(t, store.AddTeamMember(&models.TeamMember{
		InvestigationID: other.ID, UserID: "bob", Role: models.RoleAnalyst,
	}))
}

func TestUpdateMemberStatus(t *testing.T) {
	store := newTestStore(t)
	inv := seedInvestigation(t, store)

	require.NoError(t, store.AddTeamMember(&models.TeamMember{
		InvestigationID: inv.ID, UserID: "bob", Role: models.RoleAnalyst,
	}))

	require.NoError(t, store.UpdateMemberStatus(inv.ID, "bob", models.MemberRemoved))

	members, err := store.ListTeamMembers(inv.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.MemberRemoved, members[0].Status)

	err = store.UpdateMemberStatus(inv.ID, "nobody", models.MemberInactive)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateMemberStatus_RejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t)
	inv := seedInvestigation(t, store)

	require.NoError(t, store.AddTeamMember(&models.TeamMember{
		InvestigationID: inv.ID, UserID: "bob", Role: models.RoleAnalyst,
	}))

	err := store.UpdateMemberStatus(inv.ID, "bob", models.MemberStatus("banned"))
	assert.ErrorIs(t, err, storage.ErrValidation)

	// The stored row is untouched.
	members, err := store.ListTeamMembers(inv.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.MemberActive, members[0].Status)
}

func TestAddTeamMember_RejectsUnknownStatus(t *testing.T) {
	store := newTestStore(t)
	inv := seedInvestigation(t, store)

	err := store.AddTeamMember(&models.TeamMember{
		InvestigationID: inv.ID, UserID: "bob", Role: models.RoleAnalyst,
		Status: models.MemberStatus("banned"),
	})
	assert.ErrorIs(t, err, storage.ErrValidation)
}
