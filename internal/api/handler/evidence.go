package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/content"
	"relaynode/backend/internal/models"
)

type createEvidenceRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	Type            string  `json:"type"`
	HashSHA256      string  `json:"hash_sha256" binding:"required"`
	ContentID       string  `json:"content_id"`
	TaskID          *string `json:"task_id"`
	IsEncrypted     bool    `json:"is_encrypted"`
	EncryptionKeyID string  `json:"encryption_key_id"`
}

func (h *Handler) ListEvidence(c *gin.Context) {
	list, err := h.Store.ListEvidence(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evidence": list})
}

// CreateEvidence accepts either a multipart upload, where the bytes go to
// the content store and the recorded hash comes from what was actually
// stored, or a JSON body referencing already-stored content by hash.
func (h *Handler) CreateEvidence(c *gin.Context) {
	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		h.uploadEvidence(c)
		return
	}

	var req createEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and hash_sha256 are required")
		return
	}

	item := &models.EvidenceItem{
		InvestigationID: c.Param("id"),
		TaskID:          req.TaskID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            models.EvidenceType(req.Type),
		HashSHA256:      req.HashSHA256,
		ContentID:       req.ContentID,
		IsEncrypted:     req.IsEncrypted,
		EncryptionKeyID: req.EncryptionKeyID,
		CollectedBy:     userID(c),
	}
	h.finishEvidence(c, item)
}

func (h *Handler) uploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	cid, err := h.Content.Add(c.Request.Context(), data, content.Metadata{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	// Evidence must survive the content backend's garbage collection.
	if err := h.Content.Pin(c.Request.Context(), cid); err != nil {
		h.writeError(c, err)
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}
	var taskID *string
	if v := c.PostForm("task_id"); v != "" {
		taskID = &v
	}

	item := &models.EvidenceItem{
		InvestigationID: c.Param("id"),
		TaskID:          taskID,
		Title:           title,
		Description:     c.PostForm("description"),
		Type:            models.EvidenceType(c.DefaultPostForm("type", string(models.EvidenceFile))),
		HashSHA256:      content.HashBytes(data),
		ContentID:       cid,
		CollectedBy:     userID(c),
	}
	h.finishEvidence(c, item)
}

func (h *Handler) finishEvidence(c *gin.Context, item *models.EvidenceItem) {
	if err := item.AppendCustody(models.CustodyRecord{
		Actor:     userID(c),
		Action:    "collected",
		Timestamp: time.Now().UTC(),
	}); err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.Store.CreateEvidence(item); err != nil {
		h.writeError(c, err)
		return
	}

	h.Recorder.Record(activity.Mutation{
		InvestigationID: item.InvestigationID,
		UserID:          userID(c),
		Type:            models.ActivityEvidenceAdded,
		TargetType:      "evidence",
		TargetID:        item.ID,
		Description:     fmt.Sprintf("added evidence %q", item.Title),
		Details:         fmt.Sprintf(`{"hash_sha256":%q}`, item.HashSHA256),
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusCreated, item)
}
