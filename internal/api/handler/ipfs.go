package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaynode/backend/internal/content"
)

// IPFSAdd is the direct content-store passthrough: raw bytes in, content
// id out. Accepts either a multipart file or a raw body.
func (h *Handler) IPFSAdd(c *gin.Context) {
	var data []byte
	var meta content.Metadata

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			h.writeError(c, err)
			return
		}
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			h.writeError(c, err)
			return
		}
		meta = content.Metadata{
			Filename: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
		}
	} else {
		var readErr error
		if data, readErr = io.ReadAll(c.Request.Body); readErr != nil {
			h.writeError(c, readErr)
			return
		}
	}

	if len(data) == 0 {
		badRequest(c, "empty content")
		return
	}

	cid, err := h.Content.Add(c.Request.Context(), data, meta)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cid": cid, "size": len(data)})
}

func (h *Handler) IPFSCat(c *gin.Context) {
	data, err := h.Content.Retrieve(c.Request.Context(), c.Param("cid"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (h *Handler) IPFSPin(c *gin.Context) {
	if err := h.Content.Pin(c.Request.Context(), c.Param("cid")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": c.Param("cid")})
}
