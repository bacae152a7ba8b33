package repository

import (
	"context"
	"errors"

	"adotapet/internal/cache"
	"adotapet/internal/models"

	"gorm.io/gorm"
)

// AnimalFilter narrows animal listings. Zero-valued fields are ignored.
type AnimalFilter struct {
	Species   string
	Size      string
	Location  string
	ShelterID string
}

// AnimalRepository defines persistence operations for adoptable animals.
type AnimalRepository interface {
	Create(ctx context.Context, animal *models.Animal) error
	GetByID(ctx context.Context, id string) (*models.Animal, error)
	List(ctx context.Context, filter AnimalFilter) ([]*models.Animal, error)
	Update(ctx context.Context, animal *models.Animal) error
	Delete(ctx context.Context, id string) error
}

type animalRepository struct {
	db *gorm.DB
}

// NewAnimalRepository returns a new AnimalRepository implementation.
func NewAnimalRepository(db *gorm.DB) AnimalRepository {
	return &animalRepository{db: db}
}

func (r *animalRepository) Create(ctx context.Context, animal *models.Animal) error {
	if err := r.db.WithContext(ctx).Create(animal).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *animalRepository) GetByID(ctx context.Context, id string) (*models.Animal, error) {
	var animal models.Animal
	key := cache.AnimalKey(id)

	err := cache.CacheAside(ctx, key, &animal, cache.AnimalTTL, func() error {
		if err := r.db.WithContext(ctx).First(&animal, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Animal", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *animalRepository) List(ctx context.Context, filter AnimalFilter) ([]*models.Animal, error) {
	query := r.db.WithContext(ctx).Model(&models.Animal{})
	if filter.Species != "" {
		query = query.Where("species = ?", filter.Species)
	}
	if filter.Size != "" {
		query = query.Where("size = ?", filter.Size)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.ShelterID != "" {
		query = query.Where("shelter_id = ?", filter.ShelterID)
	}

	var animals []*models.Animal
	if err := query.Order("created_at DESC").Find(&animals).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return animals, nil
}

func (r *animalRepository) Update(ctx context.Context, animal *models.Animal) error {
	if err := r.db.WithContext(ctx).Save(animal).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnimal(ctx, animal.ID)
	return nil
}

func (r *animalRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Animal{}, "id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnimal(ctx, id)
	return nil
}
