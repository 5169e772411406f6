package model

import (
	"time"
)

/*

LikedPost is a "many-to-many" relation of user likes a post

UserID: user id
PostID: post id
CreatedAt: time when relation is created

The composite primary key guarantees at most one row per (user, post) pair,
which is what makes the like toggle idempotent at the DB level.

*/

type LikedPost struct {
	UserID    string `gorm:"primaryKey"`
	PostID    uint   `gorm:"primaryKey"`
	CreatedAt time.Time
}
