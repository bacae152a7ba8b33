package service

import (
	"context"

	"adotapet/internal/models"
	"adotapet/internal/repository"
)

// AnimalService manages adoptable animal listings.
type AnimalService struct {
	repo repository.AnimalRepository
}

type CreateAnimalInput struct {
	ShelterID   string
	Name        string
	Species     string
	Breed       string
	Age         int
	Size        string
	Location    string
	Description string
	Vaccinated  bool
	Neutered    bool
}

type UpdateAnimalInput struct {
	AnimalID    string
	UserID      string
	Name        *string
	Breed       *string
	Age         *int
	Size        *string
	Location    *string
	Description *string
	Vaccinated  *bool
	Neutered    *bool
}

func NewAnimalService(repo repository.AnimalRepository) *AnimalService {
	return &AnimalService{repo: repo}
}

func validAnimalSize(size string) bool {
	switch size {
	case models.AnimalSizeSmall, models.AnimalSizeMedium, models.AnimalSizeLarge:
		return true
	}
	return false
}

func (s *AnimalService) Create(ctx context.Context, in CreateAnimalInput) (*models.Animal, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.Species == "" {
		return nil, models.NewValidationError("Species is required")
	}
	if in.Size != "" && !validAnimalSize(in.Size) {
		return nil, models.NewValidationError("Size must be pequeno, medio or grande")
	}

	animal := &models.Animal{
		Name:        in.Name,
		Species:     in.Species,
		Breed:       in.Breed,
		Age:         in.Age,
		Size:        in.Size,
		Location:    in.Location,
		ShelterID:   in.ShelterID,
		Description: in.Description,
		Vaccinated:  in.Vaccinated,
		Neutered:    in.Neutered,
	}
	if err := s.repo.Create(ctx, animal); err != nil {
		return nil, err
	}
	return animal, nil
}

func (s *AnimalService) Get(ctx context.Context, id string) (*models.Animal, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	return s.repo.GetByID(ctx, id)
}

func (s *AnimalService) List(ctx context.Context, filter repository.AnimalFilter) ([]*models.Animal, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	return s.repo.List(ctx, filter)
}

// Update merges the provided fields. Only the owning shelter may update.
func (s *AnimalService) Update(ctx context.Context, in UpdateAnimalInput) (*models.Animal, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}

	animal, err := s.repo.GetByID(ctx, in.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal.ShelterID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own animals")
	}

	if in.Name != nil {
		animal.Name = *in.Name
	}
	if in.Breed != nil {
		animal.Breed = *in.Breed
	}
	if in.Age != nil {
		animal.Age = *in.Age
	}
	if in.Size != nil {
		if !validAnimalSize(*in.Size) {
			return nil, models.NewValidationError("Size must be pequeno, medio or grande")
		}
		animal.Size = *in.Size
	}
	if in.Location != nil {
		animal.Location = *in.Location
	}
	if in.Description != nil {
		animal.Description = *in.Description
	}
	if in.Vaccinated != nil {
		animal.Vaccinated = *in.Vaccinated
	}
	if in.Neutered != nil {
		animal.Neutered = *in.Neutered
	}

	if err := s.repo.Update(ctx, animal); err != nil {
		return nil, err
	}
	return animal, nil
}

func (s *AnimalService) Delete(ctx context.Context, animalID, userID string) error {
	if s.repo == nil {
		return models.NewStorageUnavailableError()
	}

	animal, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return err
	}
	if animal.ShelterID != userID {
		return models.NewUnauthorizedError("You can only delete your own animals")
	}
	return s.repo.Delete(ctx, animalID)
}
