package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/problog/problog/model"
	Logger "github.com/problog/problog/utils/log"
	"gorm.io/gorm"
)

// ListPosts serves one page of the topic-filtered feed. Pagination is keyset
// on the post id: ids are monotonic, so "id < cursor" walks the feed in
// creation order even when timestamps collide.
func (h *Handler) ListPosts(c *gin.Context) {
	topic, err := model.ParseTopic(c.Query("topic"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cursor *uint
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}
		u := uint(parsed)
		cursor = &u
	}

	query := h.DB.Model(&model.Post{}).
		Preload("Author").
		Preload("Files")
	if topic != model.TopicAll {
		query = query.Where("topic = ?", topic)
	}
	if cursor != nil {
		query = query.Where("posts.id < ?", *cursor)
	}

	var posts []*model.Post
	if err := query.
		Order("posts.id desc").
		Limit(model.FeedPageSize).
		Find(&posts).Error; err != nil {
		Logger.Log.Error("fail to read feed page: ", err)
		internalError(c)
		return
	}
	h.attachCounts(posts)

	// A short page signals end-of-feed.
	var nextCursor *uint
	if len(posts) == model.FeedPageSize {
		nextCursor = &posts[len(posts)-1].Id
	}

	c.JSON(http.StatusOK, model.PostPage{Posts: posts, NextCursor: nextCursor})
}

// CreatePost accepts the multipart post-authoring form. Attachments arrive
// as already-uploaded blob urls under "fileUrls" (or the legacy "files"
// field), never as raw file bodies.
func (h *Handler) CreatePost(c *gin.Context) {
	userId := currentUserId(c)
	if userId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	rawTopic := c.PostForm("topic")
	if title == "" || description == "" || rawTopic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	topic, err := model.ParsePostTopic(rawTopic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileUrls := append(c.PostFormArray("files"), c.PostFormArray("fileUrls")...)
	if len(fileUrls) > model.MaxFilesPerPost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max 5 files allowed"})
		return
	}

	var author model.User
	if res := h.DB.Where("id = ?", userId).First(&author); res.RowsAffected != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	files := []model.File{}
	for _, url := range fileUrls {
		files = append(files, model.File{Url: url})
	}

	post := model.Post{
		CreatedAt:   time.Now(),
		Topic:       topic,
		Title:       title,
		Description: description,
		AuthorID:    author.Id,
		Author:      &author,
		Files:       files,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		Logger.Log.Error("fail to create post: ", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, &post)
}

// GetPost returns a single post with author, files and counts.
func (h *Handler) GetPost(c *gin.Context) {
	postId, ok := parsePostId(c)
	if !ok {
		return
	}

	var post model.Post
	res := h.DB.Preload("Author").Preload("Files").Where("id = ?", postId).First(&post)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	h.attachCounts([]*model.Post{&post})

	c.JSON(http.StatusOK, gin.H{"post": &post})
}

type postUpdateInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Topic       *string  `json:"topic"`
	Files       []string `json:"files"`
}

// UpdatePost merges a partial update into an existing post. Only the post's
// author may update it; a nil field leaves the current value untouched, a
// non-nil Files slice replaces the attachment list wholesale.
func (h *Handler) UpdatePost(c *gin.Context) {
	userId := currentUserId(c)
	if userId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	postId, ok := parsePostId(c)
	if !ok {
		return
	}

	var input postUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if input.Files != nil && len(input.Files) > model.MaxFilesPerPost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max 5 files allowed"})
		return
	}

	var post model.Post
	res := h.DB.Preload("Files").Where("id = ?", postId).First(&post)
	if res.RowsAffected != 1 || post.AuthorID != userId {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found or you're not its owner"})
		return
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Description != nil {
		post.Description = *input.Description
	}
	if input.Topic != nil {
		topic, err := model.ParsePostTopic(*input.Topic)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		post.Topic = topic
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if input.Files != nil {
			if err := tx.Where("post_id = ?", post.Id).Delete(&model.File{}).Error; err != nil {
				return err
			}
			post.Files = []model.File{}
			for _, url := range input.Files {
				post.Files = append(post.Files, model.File{PostID: post.Id, Url: url})
			}
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		Logger.Log.Error("fail to update post: ", err)
		internalError(c)
		return
	}

	var updated model.Post
	h.DB.Preload("Author").Preload("Files").Where("id = ?", post.Id).First(&updated)
	h.attachCounts([]*model.Post{&updated})

	c.JSON(http.StatusOK, &updated)
}

// DeletePost removes a post and every relation hanging off it. Only the
// author may delete.
func (h *Handler) DeletePost(c *gin.Context) {
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
	res := h.DB.Where("id = ?", postId).First(&post)
	if res.RowsAffected != 1 || post.AuthorID != userId {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found or you're not its owner"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.Id).Delete(&model.LikedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.Id).Delete(&model.Collection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.Id).Delete(&model.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		Logger.Log.Error("fail to delete post: ", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
