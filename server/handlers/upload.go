package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/problog/problog/utils"
	Logger "github.com/problog/problog/utils/log"
)

// MaxUploadBytes caps a single upload at 4MB, matching the blob provider's
// limit for direct uploads.
const MaxUploadBytes = 4 << 20

var allowedUploadExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Upload streams one multipart file into the blob store and returns its
// public url. The client supplies the logical path the blob should live
// under (e.g. "avatars/u123").
func (h *Handler) Upload(c *gin.Context) {
	if currentUserId(c) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.FileStore == nil {
		Logger.Log.Error("upload requested but no file store is configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	path := c.PostForm("path")
	header, err := c.FormFile("file")
	if err != nil || path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file or path"})
		return
	}

	if ext := utils.GetUrlExtNameWithDot(header.Filename); !utils.ContainsString(allowedUploadExts, ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image uploads are allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		internalError(c)
		return
	}
	defer file.Close()

	url, err := h.FileStore.Upload(file, path, header.Filename)
	if err != nil {
		Logger.Log.Error("fail to upload blob: ", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
