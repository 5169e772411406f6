package model

import (
	"time"
)

/*

Collection is a "many-to-many" relation of user saves a post to the personal
collection. Same uniqueness contract as LikedPost.

*/

type Collection struct {
	UserID    string `gorm:"primaryKey"`
	PostID    uint   `gorm:"primaryKey"`
	CreatedAt time.Time
}
