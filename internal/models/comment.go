package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a child of a Publication. PublicationID is a back-reference
// for projection purposes, not an ownership pointer: only the comment's own
// author may delete it.
type Comment struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	Text               string    `gorm:"type:text;not null" json:"text"`
	AuthorID           string    `gorm:"size:36;not null" json:"authorId"`
	AuthorName         string    `gorm:"not null" json:"authorName"`
	AuthorProfilePhoto string    `json:"authorProfilePhoto,omitempty"`
	PublicationID      string    `gorm:"size:36;not null;index" json:"publicationId"`
	CreatedAt          time.Time `json:"-"`
}

// BeforeCreate assigns an opaque string ID when none was provided.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentView is the wire shape of a comment: CreatedAt is projected as an
// RFC3339 timestamp string.
type CommentView struct {
	ID                 string `json:"id"`
	Text               string `json:"text"`
	AuthorID           string `json:"authorId"`
	AuthorName         string `json:"authorName"`
	AuthorProfilePhoto string `json:"authorProfilePhoto,omitempty"`
	PublicationID      string `json:"publicationId"`
	CreatedAt          string `json:"createdAt"`
}

// View projects the comment into its wire shape.
func (c *Comment) View() CommentView {
	return CommentView{
		ID:                 c.ID,
		Text:               c.Text,
		AuthorID:           c.AuthorID,
		AuthorName:         c.AuthorName,
		AuthorProfilePhoto: c.AuthorProfilePhoto,
		PublicationID:      c.PublicationID,
		CreatedAt:          c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
