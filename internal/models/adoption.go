package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Adoption request statuses.
const (
	AdoptionStatusPending  = "pending"
	AdoptionStatusApproved = "approved"
	AdoptionStatusRejected = "rejected"
)

// RequesterInfo carries the free-form answers a requester fills in when
// asking to adopt.
type RequesterInfo struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Availability string `json:"availability"`
	Experience   string `json:"experience"`
	Housing      string `json:"housing"`
	Motivation   string `json:"motivation"`
}

// AdoptionRequest links a requester to a publication's author. The
// publication text and author email are denormalized so the request stays
// meaningful even if the publication is later soft-deleted.
type AdoptionRequest struct {
	ID                     string        `gorm:"primaryKey;size:36" json:"id"`
	PublicationID          string        `gorm:"size:36;not null;index" json:"publicationId"`
	PublicationAuthorEmail string        `gorm:"not null;index" json:"publicationAuthorEmail"`
	PublicationText        string        `gorm:"type:text" json:"publicationText,omitempty"`
	RequesterID            string        `gorm:"size:36;not null;index" json:"requesterId"`
	RequesterEmail         string        `gorm:"not null" json:"requesterEmail"`
	RequesterName          string        `json:"requesterName"`
	RequesterInfo          RequesterInfo `gorm:"serializer:json" json:"requesterInfo"`
	Status                 string        `gorm:"not null;default:pending" json:"status"`
	CreatedAt              time.Time     `json:"createdAt"`
	UpdatedAt              time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns an opaque string ID when none was provided.
func (r *AdoptionRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
