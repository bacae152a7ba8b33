package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Animal sizes.
const (
	AnimalSizeSmall  = "pequeno"
	AnimalSizeMedium = "medio"
	AnimalSizeLarge  = "grande"
)

// Animal is a shelter's adoptable animal listing.
type Animal struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Species     string    `gorm:"not null;index" json:"species"`
	Breed       string    `gorm:"index" json:"breed"`
	Age         int       `json:"age"`
	Size        string    `json:"size"`
	Location    string    `json:"location"`
	ShelterID   string    `gorm:"size:36;index" json:"shelter_id"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Vaccinated  bool      `json:"vaccinated"`
	Neutered    bool      `json:"neutered"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque string ID when none was provided.
func (a *Animal) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
