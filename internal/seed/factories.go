// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"adotapet/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a fake user. All seeded users share the password
// "Adotapet123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Adotapet123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	userType := models.UserTypeAdopter
	if f.rnd.Intn(4) == 0 {
		userType = models.UserTypeShelter
	}

	user := &models.User{
		Email:        strings.ToLower(gofakeit.Email()),
		Password:     string(hashed),
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		ProfilePhoto: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		Phone:        gofakeit.Phone(),
		UserType:     userType,
		City:         gofakeit.City(),
		State:        gofakeit.StateAbr(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePublication persists a fake publication authored by user with a
// realistic created_at spread over the last 90 days.
func (f *Factory) CreatePublication(user *models.User, overrides ...func(*models.Publication)) (*models.Publication, error) {
	media := []string{}
	if f.rnd.Intn(2) == 0 {
		media = append(media, fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
	}

	publication := &models.Publication{
		Text:               gofakeit.Paragraph(1, 2, 8, "\n"),
		Media:              media,
		AuthorID:           user.ID,
		AuthorName:         user.ResolveDisplayName(),
		AuthorEmail:        user.Email,
		AuthorProfilePhoto: user.ProfilePhoto,
		IsActive:           true,
		CreatedAt: time.Now().
			Add(-time.Duration(f.rnd.Intn(90)) * 24 * time.Hour).
			Add(-time.Duration(f.rnd.Intn(24)) * time.Hour),
	}
	for _, override := range overrides {
		override(publication)
	}

	if err := f.db.Create(publication).Error; err != nil {
		return nil, err
	}
	return publication, nil
}

// CreateComment persists a fake comment on the publication. The parent
// counter is NOT updated here; callers reconcile via the service.
func (f *Factory) CreateComment(publication *models.Publication, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		Text:               gofakeit.Sentence(8),
		AuthorID:           author.ID,
		AuthorName:         author.ResolveDisplayName(),
		AuthorProfilePhoto: author.ProfilePhoto,
		PublicationID:      publication.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateAnimal persists a fake adoptable animal owned by shelter.
func (f *Factory) CreateAnimal(shelter *models.User) (*models.Animal, error) {
	sizes := []string{models.AnimalSizeSmall, models.AnimalSizeMedium, models.AnimalSizeLarge}
	species := []string{"cachorro", "gato", "coelho", "passaro"}

	animal := &models.Animal{
		Name:        gofakeit.PetName(),
		Species:     species[f.rnd.Intn(len(species))],
		Breed:       gofakeit.Dog(),
		Age:         f.rnd.Intn(12) + 1,
		Size:        sizes[f.rnd.Intn(len(sizes))],
		Location:    gofakeit.City(),
		ShelterID:   shelter.ID,
		Description: gofakeit.Sentence(12),
		Vaccinated:  f.rnd.Intn(3) > 0,
		Neutered:    f.rnd.Intn(2) == 0,
	}
	if err := f.db.Create(animal).Error; err != nil {
		return nil, err
	}
	return animal, nil
}
