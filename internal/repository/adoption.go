package repository

import (
	"context"
	"errors"

	"adotapet/internal/models"

	"gorm.io/gorm"
)

// AdoptionRequestRepository defines persistence operations for adoption requests.
type AdoptionRequestRepository interface {
	Create(ctx context.Context, request *models.AdoptionRequest) error
	GetByID(ctx context.Context, id string) (*models.AdoptionRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*models.AdoptionRequest, error)
	ListByPublicationAuthor(ctx context.Context, authorEmail string) ([]*models.AdoptionRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type adoptionRequestRepository struct {
	db *gorm.DB
}

// NewAdoptionRequestRepository returns a new AdoptionRequestRepository implementation.
func NewAdoptionRequestRepository(db *gorm.DB) AdoptionRequestRepository {
	return &adoptionRequestRepository{db: db}
}

func (r *adoptionRequestRepository) Create(ctx context.Context, request *models.AdoptionRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *adoptionRequestRepository) GetByID(ctx context.Context, id string) (*models.AdoptionRequest, error) {
	var request models.AdoptionRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("AdoptionRequest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *adoptionRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*models.AdoptionRequest, error) {
	var requests []*models.AdoptionRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// ListByPublicationAuthor returns the requests targeting publications owned by
// the given author email, newest first.
func (r *adoptionRequestRepository) ListByPublicationAuthor(ctx context.Context, authorEmail string) ([]*models.AdoptionRequest, error) {
	var requests []*models.AdoptionRequest
	err := r.db.WithContext(ctx).
		Where("publication_author_email = ?", authorEmail).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *adoptionRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdoptionRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("AdoptionRequest", id)
	}
	return nil
}
