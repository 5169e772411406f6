package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/problog/problog/model"
	Logger "github.com/problog/problog/utils/log"
	"gorm.io/gorm"
)

// ToggleLike flips the (user, post) like relation inside a transaction and
// reports the resulting membership. The composite primary key on the
// junction table makes a double-create impossible, so the flip is idempotent
// per observed state.
func (h *Handler) ToggleLike(c *gin.Context) {
	userId := currentUserId(c)
	if userId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	postId, ok := parsePostId(c)
	if !ok {
		return
	}

	var post model.Post
	if res := h.DB.Where("id = ?", postId).First(&post); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var liked bool
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.LikedPost
		res := tx.Where("user_id = ? AND post_id = ?", userId, postId).First(&existing)
		if res.RowsAffected == 1 {
			// Unlike
			liked = false
			return tx.Where("user_id = ? AND post_id = ?", userId, postId).
				Delete(&model.LikedPost{}).Error
		}
		// Like
		liked = true
		return tx.Create(&model.LikedPost{UserID: userId, PostID: postId, CreatedAt: time.Now()}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to toggle like: ", err)
		internalError(c)
		return
	}

	h.invalidateHydrateCache(userId)
	c.JSON(http.StatusOK, gin.H{"ok": true, "liked": liked})
}

// ToggleCollection is the collection-relation twin of ToggleLike.
func (h *Handler) ToggleCollection(c *gin.Context) {
	userId := currentUserId(c)
	if userId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	postId, ok := parsePostId(c)
	if !ok {
		return
	}

	var post model.Post
	if res := h.DB.Where("id = ?", postId).First(&post); res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var collected bool
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Collection
		res := tx.Where("user_id = ? AND post_id = ?", userId, postId).First(&existing)
		if res.RowsAffected == 1 {
			collected = false
			return tx.Where("user_id = ? AND post_id = ?", userId, postId).
				Delete(&model.Collection{}).Error
		}
		collected = true
		return tx.Create(&model.Collection{UserID: userId, PostID: postId, CreatedAt: time.Now()}).Error
	})
	if err != nil {
		Logger.Log.Error("fail to toggle collection: ", err)
		internalError(c)
		return
	}

	h.invalidateHydrateCache(userId)
	c.JSON(http.StatusOK, gin.H{"collected": collected})
}
