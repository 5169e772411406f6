package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/problog/problog/model"
	"github.com/problog/problog/server/file_store"
	"github.com/problog/problog/utils"
	"gorm.io/gorm"
)

// Handler carries the shared collaborators every endpoint needs. Redis is
// optional; when nil the hydrate endpoint always reads from the DB.
type Handler struct {
	DB        *gorm.DB
	FileStore file_store.UploadFileStore
	Redis     *utils.RedisClient
}

func New(db *gorm.DB, fs file_store.UploadFileStore, redis *utils.RedisClient) *Handler {
	return &Handler{DB: db, FileStore: fs, Redis: redis}
}

// currentUserId returns the verified session user id set by the JWT
// middleware, or empty string for anonymous requests.
func currentUserId(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}

func parsePostId(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return 0, false
	}
	return uint(id), true
}

// attachCounts fills the derived like/collection counters of each post from
// the junction tables.
func (h *Handler) attachCounts(posts []*model.Post) {
	for _, post := range posts {
		h.DB.Model(&model.LikedPost{}).Where("post_id = ?", post.Id).Count(&post.LikeCount)
		h.DB.Model(&model.Collection{}).Where("post_id = ?", post.Id).Count(&post.CollectionCount)
	}
}

func (h *Handler) invalidateHydrateCache(userId string) {
	if h.Redis == nil {
		return
	}
	// Best effort, the short TTL covers a failed invalidation.
	h.Redis.InvalidateHydratePayload(userId)
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
