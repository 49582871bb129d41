package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/auth"
)

func TestTeamMembership(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)
	invID := f.createInvestigation(t, token, "Beacon traffic")

	w := f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/team", token, gin.H{
		"user_id": "bob", "role": "analyst",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Adding the same member twice is a conflict, not a second row.
	w = f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/team", token, gin.H{
		"user_id": "bob", "role": "observer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/investigations/"+invID+"/team", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode(t, w)["members"].([]interface{})
	assert.Len(t, members, 1)
}

func TestChatMessages(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)
	invID := f.createInvestigation(t, token, "Beacon traffic")

	w := f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/chat", token, gin.H{
		"content": "found a second beacon host",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	msgID := decode(t, w)["id"].(string)

	w = f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/chat", token, gin.H{
		"content": "confirming", "reply_to": msgID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/investigations/"+invID+"/chat", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["messages"].([]interface{}), 2)

	w = f.do(t, http.MethodDelete, "/api/v1/investigations/"+invID+"/chat/"+msgID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/investigations/"+invID+"/chat", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decode(t, w)["messages"].([]interface{})
	require.Len(t, messages, 1, "deleted messages are hidden, not returned")
	assert.Equal(t, "confirming", messages[0].(map[string]interface{})["content"])
}
