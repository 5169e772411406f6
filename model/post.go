package model

import (
	"time"

	"gorm.io/gorm"
)

// MaxFilesPerPost bounds how many attachments a single post may carry. The
// create and update paths both enforce it before touching the DB.
const MaxFilesPerPost = 5

/*

Post is a piece of user-authored content shown in the feed.

Id: primary key, auto-incremented. Because ids are monotonic they double as
	the keyset pagination cursor for the feed (see server/handlers).
CreatedAt: time when entity is created, feed is ordered by it descending
DeletedAt: time when entity is deleted

Topic: the category the post was published under, never TopicAll
Title: post's title in plain text
Description: post's body in plain text
AuthorID:
Author: user who authored the post, "belongs-to" relation

Files: attached images in upload order, at most MaxFilesPerPost
LikedBy: users who liked the post, "many-to-many" relation through LikedPost
CollectedBy: users who collected the post, "many-to-many" relation through Collection

LikeCount / CollectionCount: aggregate counts derived from the junction
	tables at query time, not stored columns.

*/

type Post struct {
	Id          uint `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	DeletedAt   gorm.DeletedAt `json:"-"`
	Topic       Topic          `gorm:"index" json:"topic"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	AuthorID    string         `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Author      *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	Files       []File         `gorm:"constraint:OnDelete:CASCADE;" json:"files"`
	LikedBy     []*User        `gorm:"many2many:liked_posts;" json:"-"`
	CollectedBy []*User        `gorm:"many2many:collections;" json:"-"`

	LikeCount       int64 `gorm:"-" json:"likeCount"`
	CollectionCount int64 `gorm:"-" json:"collectionCount"`
}

/*

File is a single attachment of a post.

Url: public url in the blob store
Filename: original client-side file name, optional

*/

type File struct {
	Id       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"index" json:"-"`
	Url      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}
