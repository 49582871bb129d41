package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaynode/backend/internal/auth"
	"relaynode/backend/internal/content"
	"relaynode/backend/internal/models"
)

func TestCreateEvidence_MultipartUpload(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)
	invID := f.createInvestigation(t, token, "Beacon traffic")

	fileBytes := []byte("captured traffic")
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "capture.pcap")
	require.NoError(t, err)
	_, err = part.Write(fileBytes)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("description", "uplink capture"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/investigations/"+invID+"/evidence", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	item := decode(t, w)
	assert.Equal(t, "capture.pcap", item["title"], "title defaults to the filename")
	assert.Equal(t, content.HashBytes(fileBytes), item["hash_sha256"], "hash comes from the stored bytes")
	assert.Equal(t, "alice", item["collected_by"])

	cid := item["content_id"].(string)
	assert.True(t, f.content.Pinned(cid), "uploaded evidence is pinned")

	got, err := f.content.Retrieve(req.Context(), cid)
	require.NoError(t, err)
	assert.Equal(t, fileBytes, got)

	// The chain of custody opens with a collected entry.
	stored, err := f.store.GetEvidence(item["id"].(string))
	require.NoError(t, err)
	records, err := stored.Custody()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "collected", records[0].Action)
	assert.Equal(t, "alice", records[0].Actor)

	time.Sleep(100 * time.Millisecond)
	activities, err := f.store.ListActivities(invID)
	require.NoError(t, err)
	var added int
	for _, a := range activities {
		if a.ActivityType == models.ActivityEvidenceAdded {
			added++
			assert.Contains(t, a.Details, item["hash_sha256"])
		}
	}
	assert.Equal(t, 1, added)
}

func TestCreateEvidence_JSONReference(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleAnalyst)
	invID := f.createInvestigation(t, f.token(t, "lead", auth.RoleInvestigator), "Beacon traffic")

	w := f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/evidence", token, gin.H{
		"title": "external report", "type": "external", "hash_sha256": "deadbeef",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "deadbeef", decode(t, w)["hash_sha256"])

	// Hash is mandatory for references.
	w = f.do(t, http.MethodPost, "/api/v1/investigations/"+invID+"/evidence", token, gin.H{
		"title": "no hash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIPFSRoutes(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "alice", auth.RoleInvestigator)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ipfs/add", bytes.NewReader([]byte("raw blob")))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cid := decode(t, w)["cid"].(string)
	assert.Equal(t, content.HashBytes([]byte("raw blob")), cid)

	w2 := f.do(t, http.MethodGet, "/api/v1/ipfs/cat/"+cid, token, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "raw blob", w2.Body.String())

	w2 = f.do(t, http.MethodPost, "/api/v1/ipfs/pin/"+cid, token, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.True(t, f.content.Pinned(cid))

	w2 = f.do(t, http.MethodGet, "/api/v1/ipfs/cat/no-such-cid", token, nil)
	assert.Equal(t, http.StatusNotFound, w2.Code)
}
