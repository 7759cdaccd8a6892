package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// IdeaTextMinLen is the minimum trimmed length of an idea's text.
	IdeaTextMinLen = 10
	// IdeaTextMaxLen is the maximum length of an idea's text.
	IdeaTextMaxLen = 2000
)

// Idea is a short text (optionally with an image) posted by a user.
// LikesCount is denormalized from the idea_likes join table and must equal
// the cardinality of LikedBy after every mutation.
type Idea struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Text          string        `gorm:"type:text;not null" json:"text"`
	Image         string        `gorm:"type:text" json:"image,omitempty"`
	AuthorID      uint          `gorm:"not null;index" json:"authorId"`
	Author        UserSummary   `gorm:"foreignKey:AuthorID" json:"author"`
	LikedBy       []UserSummary `gorm:"many2many:idea_likes;joinForeignKey:IdeaID;joinReferences:UserID" json:"likedBy,omitempty"`
	LikesCount    int           `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int           `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IdeaLike is one row of the idea_likes join table.
// The (IdeaID, UserID) pair is the primary key, so a user can like a given
// idea at most once.
type IdeaLike struct {
	IdeaID    uint      `gorm:"primaryKey" json:"ideaId"`
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the join table name in sync with the many2many tag on Idea.
func (IdeaLike) TableName() string {
	return "idea_likes"
}
