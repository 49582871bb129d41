package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/api/handler"
	"relaynode/backend/internal/auth"
	"relaynode/backend/internal/content"
	"relaynode/backend/internal/storage"
)

type fixture struct {
	router  *gin.Engine
	store   *storage.Service
	content *content.MemoryStore
	auth    *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.InitDB(filepath.Join(t.TempDir(), "case.db"))
	require.NoError(t, err)
	store := storage.NewService(db, nil)
	cs := content.NewMemoryStore()
	authSvc := auth.NewService("test-secret", time.Hour)

	rec := activity.NewRecorder(store, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go rec.Run(ctx)

	h := handler.NewHandler(store, cs, authSvc, rec, zap.NewNop().Sugar())
	return &fixture{
		router:  h.Router(),
		store:   store,
		content: cs,
		auth:    authSvc,
	}
}

func (f *fixture) token(t *testing.T, userID string, role auth.Role) string {
	t.Helper()
	token, err := f.auth.IssueToken(userID, role)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createInvestigation drives the API itself so fixtures exercise the same
// path production traffic does.
func (f *fixture) createInvestigation(t *testing.T, token, title string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/investigations", token, gin.H{"title": title})
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)["id"].(string)
}
