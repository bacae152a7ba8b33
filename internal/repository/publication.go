// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"adotapet/internal/cache"
	"adotapet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublicationRepository defines the interface for publication data operations
type PublicationRepository interface {
	Create(ctx context.Context, publication *models.Publication) error
	GetByID(ctx context.Context, id string) (*models.Publication, error)
	ListActive(ctx context.Context) ([]*models.Publication, error)
	ListActiveByAuthor(ctx context.Context, authorID string) ([]*models.Publication, error)
	ListAll(ctx context.Context) ([]*models.Publication, error)
	Updates(ctx context.Context, publication *models.Publication, fields map[string]any) error
	HasLiked(ctx context.Context, publicationID, userID string) (bool, error)
	AddLike(ctx context.Context, publicationID, userID string) error
	RemoveLike(ctx context.Context, publicationID, userID string) error
	AddComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, publicationID, commentID string) (*models.Comment, error)
	ListComments(ctx context.Context, publicationID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	CountComments(ctx context.Context, publicationID string) (int64, error)
}

// publicationRepository implements PublicationRepository
type publicationRepository struct {
	db *gorm.DB
}

// NewPublicationRepository creates a new publication repository
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

func (r *publicationRepository) Create(ctx context.Context, publication *models.Publication) error {
	err := r.db.WithContext(ctx).Create(publication).Error
	if err == nil {
		cache.InvalidatePublication(ctx, publication.ID, publication.AuthorID)
	}
	return err
}

// GetByID returns the publication regardless of its active flag. Deactivated
// publications stay addressable by id; only the feed queries filter them out.
func (r *publicationRepository) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	var publication models.Publication
	err := r.db.WithContext(ctx).First(&publication, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadLikedBy(ctx, []*models.Publication{&publication}); err != nil {
		return nil, err
	}
	return &publication, nil
}

func (r *publicationRepository) ListActive(ctx context.Context) ([]*models.Publication, error) {
	var publications []*models.Publication
	err := cache.CacheAside(ctx, cache.FeedKey, &publications, cache.FeedTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("created_at DESC").
			Find(&publications).Error; err != nil {
			return err
		}
		return r.loadLikedBy(ctx, publications)
	})
	return publications, err
}

func (r *publicationRepository) ListActiveByAuthor(ctx context.Context, authorID string) ([]*models.Publication, error) {
	var publications []*models.Publication
	key := cache.UserFeedKey(authorID)
	err := cache.CacheAside(ctx, key, &publications, cache.FeedTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("author_id = ? AND is_active = ?", authorID, true).
			Order("created_at DESC").
			Find(&publications).Error; err != nil {
			return err
		}
		return r.loadLikedBy(ctx, publications)
	})
	return publications, err
}

func (r *publicationRepository) ListAll(ctx context.Context) ([]*models.Publication, error) {
	var publications []*models.Publication
	err := r.db.WithContext(ctx).Find(&publications).Error
	return publications, err
}

func (r *publicationRepository) Updates(ctx context.Context, publication *models.Publication, fields map[string]any) error {
	err := r.db.WithContext(ctx).Model(publication).Updates(fields).Error
	if err == nil {
		cache.InvalidatePublication(ctx, publication.ID, publication.AuthorID)
	}
	return err
}

// loadLikedBy materializes the liker id sets for a batch of publications
// with a single query.
func (r *publicationRepository) loadLikedBy(ctx context.Context, publications []*models.Publication) error {
	if len(publications) == 0 {
		return nil
	}

	ids := make([]string, 0, len(publications))
	for _, p := range publications {
		ids = append(ids, p.ID)
	}

	var likes []models.PublicationLike
	if err := r.db.WithContext(ctx).
		Where("publication_id IN ?", ids).
		Order("created_at ASC").
		Find(&likes).Error; err != nil {
		return err
	}

	byPublication := make(map[string][]string, len(publications))
	for _, l := range likes {
		byPublication[l.PublicationID] = append(byPublication[l.PublicationID], l.UserID)
	}

	for _, p := range publications {
		if likers, ok := byPublication[p.ID]; ok {
			p.LikedBy = likers
		} else {
			p.LikedBy = []string{}
		}
	}
	return nil
}

func (r *publicationRepository) HasLiked(ctx context.Context, publicationID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PublicationLike{}).
		Where("publication_id = ? AND user_id = ?", publicationID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *publicationRepository) AddLike(ctx context.Context, publicationID, userID string) error {
	// ON CONFLICT DO NOTHING keeps the liker set a set under concurrent toggles.
	like := models.PublicationLike{PublicationID: publicationID, UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

func (r *publicationRepository) RemoveLike(ctx context.Context, publicationID, userID string) error {
	return r.db.WithContext(ctx).
		Where("publication_id = ? AND user_id = ?", publicationID, userID).
		Delete(&models.PublicationLike{}).Error
}

func (r *publicationRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *publicationRepository) GetComment(ctx context.Context, publicationID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND publication_id = ?", commentID, publicationID).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *publicationRepository) ListComments(ctx context.Context, publicationID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("publication_id = ?", publicationID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *publicationRepository) DeleteComment(ctx context.Context, commentID string) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", commentID).Error
}

func (r *publicationRepository) CountComments(ctx context.Context, publicationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("publication_id = ?", publicationID).
		Count(&count).Error
	return count, err
}
