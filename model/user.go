package model

import (
	"time"

	"gorm.io/gorm"
)

/*

User is an account that can author posts and build liked/collection
relationships to other users' posts.

Id: primary key, opaque uuid assigned at sign-up
CreatedAt: time when entity is created
DeletedAt: time when entity is deleted

Name: display name, unique
Email: sign-in identity, unique
PasswordHash: bcrypt hash of the credential password. Empty for accounts that
	only ever signed in through the OAuth provider.
AvatarUrl: public url of the profile image, stored in the blob store

Posts: posts authored by this user, "has-many" relation
LikedPosts: posts this user liked, "many-to-many" relation through LikedPost
Collections: posts this user collected, "many-to-many" relation through Collection

*/

type User struct {
	Id           string `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	DeletedAt    gorm.DeletedAt `json:"-"`
	Name         string         `gorm:"uniqueIndex" json:"name"`
	Email        string         `gorm:"uniqueIndex" json:"email"`
	PasswordHash string         `json:"-"`
	AvatarUrl    string         `json:"image"`
	Posts        []*Post        `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	LikedPosts   []*Post        `gorm:"many2many:liked_posts;" json:"likedPosts,omitempty"`
	Collections  []*Post        `gorm:"many2many:collections;" json:"collections,omitempty"`
}
