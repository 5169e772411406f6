package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/problog/problog/model"
	Logger "github.com/problog/problog/utils/log"
	"gorm.io/gorm"
)

// GetUser returns a public profile with aggregate counts.
func (h *Handler) GetUser(c *gin.Context) {
	userId := c.Param("id")

	var user model.User
	res := h.DB.Where("id = ?", userId).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var postCount, likedCount, collectionCount int64
	h.DB.Model(&model.Post{}).Where("author_id = ?", userId).Count(&postCount)
	h.DB.Model(&model.LikedPost{}).Where("user_id = ?", userId).Count(&likedCount)
	h.DB.Model(&model.Collection{}).Where("user_id = ?", userId).Count(&collectionCount)

	c.JSON(http.StatusOK, gin.H{
		"id":    user.Id,
		"name":  user.Name,
		"email": user.Email,
		"image": user.AvatarUrl,
		"_count": gin.H{
			"posts":       postCount,
			"likedPosts":  likedCount,
			"collections": collectionCount,
		},
	})
}

type userUpdateInput struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// UpdateUser edits the profile (display name, avatar). Users may only edit
// themselves.
func (h *Handler) UpdateUser(c *gin.Context) {
	userId := c.Param("id")
	if currentUserId(c) != userId {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input userUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	var user model.User
	res := h.DB.Where("id = ?", userId).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Image != nil {
		user.AvatarUrl = *input.Image
	}
	if err := h.DB.Save(&user).Error; err != nil {
		Logger.Log.Error("fail to update user: ", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updatedUser": &user})
}

// DeleteUser removes the account together with its posts and every relation
// row that references it.
func (h *Handler) DeleteUser(c *gin.Context) {
	userId := c.Param("id")
	if currentUserId(c) != userId {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user model.User
	res := h.DB.Where("id = ?", userId).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// Relations held by this user.
		if err := tx.Where("user_id = ?", userId).Delete(&model.LikedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userId).Delete(&model.Collection{}).Error; err != nil {
			return err
		}

		// Authored posts and the relations other users hold on them.
		var posts []*model.Post
		if err := tx.Where("author_id = ?", userId).Find(&posts).Error; err != nil {
			return err
		}
		for _, post := range posts {
			if err := tx.Where("post_id = ?", post.Id).Delete(&model.LikedPost{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.Id).Delete(&model.Collection{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.Id).Delete(&model.File{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(post).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		Logger.Log.Error("fail to delete user: ", err)
		internalError(c)
		return
	}

	h.invalidateHydrateCache(userId)
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

// HydrateUser returns the caller's full liked/collection membership, used by
// the client store right after a session is established. Cached in Redis
// because it is hit on every page load.
func (h *Handler) HydrateUser(c *gin.Context) {
	userId := c.Param("id")
	if currentUserId(c) != userId {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if h.Redis != nil {
		if cached, err := h.Redis.GetHydratePayload(userId); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	payload := model.HydratePayload{LikedPosts: []uint{}, Collections: []uint{}}
	if err := h.DB.Model(&model.LikedPost{}).Where("user_id = ?", userId).
		Order("post_id").Pluck("post_id", &payload.LikedPosts).Error; err != nil {
		Logger.Log.Error("fail to read liked posts: ", err)
		internalError(c)
		return
	}
	if err := h.DB.Model(&model.Collection{}).Where("user_id = ?", userId).
		Order("post_id").Pluck("post_id", &payload.Collections).Error; err != nil {
		Logger.Log.Error("fail to read collections: ", err)
		internalError(c)
		return
	}

	if h.Redis != nil {
		h.Redis.SetHydratePayload(userId, &payload)
	}
	c.JSON(http.StatusOK, &payload)
}

// LikedPosts lists the posts a user liked, newest first.
func (h *Handler) LikedPosts(c *gin.Context) {
	userId := c.Param("id")

	var posts []*model.Post
	if err := h.DB.Model(&model.Post{}).
		Preload("Author").
		Preload("Files").
		Joins("INNER JOIN liked_posts ON liked_posts.post_id = posts.id").
		Where("liked_posts.user_id = ?", userId).
		Order("posts.id desc").
		Find(&posts).Error; err != nil {
		Logger.Log.Error("fail to read liked posts: ", err)
		internalError(c)
		return
	}
	h.attachCounts(posts)

	c.JSON(http.StatusOK, posts)
}

// CollectionPosts lists the posts a user collected, newest first.
func (h *Handler) CollectionPosts(c *gin.Context) {
	userId := c.Param("id")

	var posts []*model.Post
	if err := h.DB.Model(&model.Post{}).
		Preload("Author").
		Preload("Files").
		Joins("INNER JOIN collections ON collections.post_id = posts.id").
		Where("collections.user_id = ?", userId).
		Order("posts.id desc").
		Find(&posts).Error; err != nil {
		Logger.Log.Error("fail to read collection posts: ", err)
		internalError(c)
		return
	}
	h.attachCounts(posts)

	c.JSON(http.StatusOK, posts)
}
