package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/models"
)

type postChatRequest struct {
	Content        string  `json:"content"`
	ReplyTo        *string `json:"reply_to"`
	FileAttachment string  `json:"file_attachment"`
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	list, err := h.Store.ListChatMessages(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *Handler) PostChatMessage(c *gin.Context) {
	var req postChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}

	msg := &models.ChatMessage{
		InvestigationID: c.Param("id"),
		SenderID:        userID(c),
		Content:         req.Content,
		ReplyTo:         req.ReplyTo,
		FileAttachment:  req.FileAttachment,
	}
	if err := h.Store.CreateChatMessage(msg); err != nil {
		h.writeError(c, err)
		return
	}

	h.Recorder.Record(activity.Mutation{
		InvestigationID: msg.InvestigationID,
		UserID:          userID(c),
		Type:            models.ActivityComment,
		TargetType:      "chat_message",
		TargetID:        msg.ID,
		Description:     "posted a chat message",
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) DeleteChatMessage(c *gin.Context) {
	if err := h.Store.DeleteChatMessage(c.Param("messageId")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("messageId")})
}
