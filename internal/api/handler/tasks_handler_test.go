package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/auth"
	"relaynode/backend/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)
	invID := f.createInvestigation(t, token, "Beacon traffic")

	w := f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/tasks", token, gin.H{
		"title": "Triage pcap", "assignee": "bob",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode(t, w)
	taskID := task["id"].(string)
	assert.Equal(t, "backlog", task["status"])

	w = f.do(t, http.MethodPut, "/api/v1/investigations/"+invID+"/tasks/"+taskID, token, gin.H{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode(t, w)["status"])

	time.Sleep(100 * time.Millisecond)
	activities, err := f.store.ListActivities(invID)
	require.NoError(t, err)

	var types []models.ActivityType
	for _, a := range activities {
		if a.TargetType == "task" {
			types = append(types, a.ActivityType)
		}
	}
	assert.Equal(t, []models.ActivityType{models.ActivityAssigned, models.ActivityCompleted}, types)

	w = f.do(t, http.MethodDelete, "/api/v1/investigations/"+invID+"/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/investigations/"+invID+"/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["tasks"])
}

func TestCreateTask_UnknownInvestigation(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)

	w := f.do(t, http.MethodPost, "/api/v1/investigations/no-such-id/tasks", token, gin.H{
		"title": "orphan",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTask_BadStatus(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)
	invID := f.createInvestigation(t, token, "Beacon traffic")

	w := f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/tasks", token, gin.H{"title": "Triage"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := decode(t, w)["id"].(string)

	w = f.do(t, http.MethodPut, "/api/v1/investigations/"+invID+"/tasks/"+taskID, token, gin.H{
		"status": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
