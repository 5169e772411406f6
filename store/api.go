package store

import (
	"context"

	"github.com/problog/problog/model"
)

// CreatePostInput is the post-authoring payload. FileUrls are blob urls the
// client uploaded beforehand, at most model.MaxFilesPerPost of them.
type CreatePostInput struct {
	Title       string
	Description string
	Topic       model.Topic
	FileUrls    []string
}

// PostUpdates is a partial post edit; nil fields are left untouched.
type PostUpdates struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Topic       *string  `json:"topic,omitempty"`
	Files       []string `json:"files,omitempty"`
}

// UserUpdates is a partial profile edit; nil fields are left untouched.
type UserUpdates struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
}

// API is the store's view of the backend. Every implementation must be safe
// for concurrent use; the store may have several requests in flight.
type API interface {
	ListPosts(ctx context.Context, topic model.Topic, cursor *uint) (*model.PostPage, error)
	CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, postId uint, updates PostUpdates) (*model.Post, error)
	DeletePost(ctx context.Context, postId uint) error

	ToggleLike(ctx context.Context, postId uint) (liked bool, err error)
	ToggleCollection(ctx context.Context, postId uint) (collected bool, err error)

	Hydrate(ctx context.Context, userId string) (*model.HydratePayload, error)
	LikedPosts(ctx context.Context, userId string) ([]*model.Post, error)
	CollectionPosts(ctx context.Context, userId string) ([]*model.Post, error)

	UpdateUser(ctx context.Context, userId string, updates UserUpdates) error
	DeleteUser(ctx context.Context, userId string) error
}
