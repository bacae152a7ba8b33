package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPublicationMedia is the maximum number of media attachments per publication.
const MaxPublicationMedia = 5

// Publication is a post on the adoption feed. Author fields are a
// denormalized snapshot taken at creation time and are never re-synced when
// the user profile changes. Likes and Comments are denormalized counters;
// the comments counter is reconciled by recounting the child rows rather
// than trusted incrementally.
type Publication struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	Text               string    `gorm:"type:text;not null" json:"text"`
	Media              []string  `gorm:"serializer:json" json:"media"`
	AuthorID           string    `gorm:"size:36;not null;index" json:"authorId"`
	AuthorName         string    `gorm:"not null" json:"authorName"`
	AuthorEmail        string    `gorm:"not null" json:"authorEmail"`
	AuthorProfilePhoto string    `json:"authorProfilePhoto,omitempty"`
	IsActive           bool      `gorm:"not null;default:true;index" json:"isActive"`
	Likes              int       `gorm:"not null;default:0" json:"likes"`
	Comments           int       `gorm:"not null;default:0" json:"comments"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	// LikedBy is not persisted on the row; it is materialized from the
	// publication_likes table on every read.
	LikedBy []string `gorm:"-" json:"likedBy"`
}

// BeforeCreate assigns an opaque string ID when none was provided.
func (p *Publication) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PublicationLike records a single user's like on a publication.
// The (publication_id, user_id) pair is unique, which is what enforces the
// set semantics of Publication.LikedBy.
type PublicationLike struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	PublicationID string    `gorm:"size:36;not null;uniqueIndex:idx_publication_user" json:"publication_id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_publication_user" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}
