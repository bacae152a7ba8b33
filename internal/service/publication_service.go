// Package service contains the business logic of the application.
package service

import (
	"context"
	"errors"
	"log/slog"

	"adotapet/internal/middleware"
	"adotapet/internal/models"
	"adotapet/internal/repository"

	"gorm.io/gorm"
)

// PublicationService implements the publication lifecycle and engagement
// rules: author snapshots, like toggling, recount-based comment counters,
// ownership gating and soft deletes.
type PublicationService struct {
	repo repository.PublicationRepository
}

type CreatePublicationInput struct {
	Author *models.User
	Text   string
	Media  []string
}

type UpdatePublicationInput struct {
	PublicationID string
	UserID        string
	Text          *string
	Media         *[]string
}

type AddCommentInput struct {
	PublicationID string
	Author        *models.User
	Text          string
}

type DeleteCommentInput struct {
	PublicationID string
	CommentID     string
	UserID        string
}

func NewPublicationService(repo repository.PublicationRepository) *PublicationService {
	return &PublicationService{repo: repo}
}

// guard rejects calls made before the storage layer was initialized.
func (s *PublicationService) guard() error {
	if s.repo == nil {
		return models.NewStorageUnavailableError()
	}
	return nil
}

func (s *PublicationService) Create(ctx context.Context, in CreatePublicationInput) (*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if in.Author == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Media) > models.MaxPublicationMedia {
		return nil, models.NewValidationError("Too many media files (max 5)")
	}

	publication := &models.Publication{
		Text:               in.Text,
		Media:              in.Media,
		AuthorID:           in.Author.ID,
		AuthorName:         in.Author.ResolveDisplayName(),
		AuthorEmail:        in.Author.Email,
		AuthorProfilePhoto: in.Author.ProfilePhoto,
		IsActive:           true,
	}
	if err := s.repo.Create(ctx, publication); err != nil {
		return nil, models.NewInternalError(err)
	}

	// Read back what the store persisted; a failure here is fatal, not retried.
	created, err := s.repo.GetByID(ctx, publication.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return created, nil
}

func (s *PublicationService) FindAll(ctx context.Context) ([]*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	publications, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return publications, nil
}

func (s *PublicationService) FindByUser(ctx context.Context, userID string) ([]*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	publications, err := s.repo.ListActiveByAuthor(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return publications, nil
}

// FindOne returns the publication whether or not it is still active.
func (s *PublicationService) FindOne(ctx context.Context, id string) (*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.getPublication(ctx, id)
}

func (s *PublicationService) getPublication(ctx context.Context, id string) (*models.Publication, error) {
	publication, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Publication", id)
		}
		return nil, models.NewInternalError(err)
	}
	return publication, nil
}

// ToggleLike adds or removes userID from the liker set and rewrites the
// denormalized counter from the value just read, floored at zero. The
// read-modify-write is deliberate: set membership is kept consistent by the
// unique index on (publication_id, user_id).
func (s *PublicationService) ToggleLike(ctx context.Context, publicationID, userID string) (*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	publication, err := s.getPublication(ctx, publicationID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.HasLiked(ctx, publicationID, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var likes int
	if liked {
		if err := s.repo.RemoveLike(ctx, publicationID, userID); err != nil {
			return nil, models.NewInternalError(err)
		}
		likes = publication.Likes - 1
		if likes < 0 {
			likes = 0
		}
	} else {
		if err := s.repo.AddLike(ctx, publicationID, userID); err != nil {
			return nil, models.NewInternalError(err)
		}
		likes = publication.Likes + 1
	}

	if err := s.repo.Updates(ctx, publication, map[string]any{"likes": likes}); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.getPublication(ctx, publicationID)
}

// AddComment stores the comment and reconciles the parent counter by
// recounting children. The counter is never incremented in place.
func (s *PublicationService) AddComment(ctx context.Context, in AddCommentInput) (*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if in.Author == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	publication, err := s.getPublication(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:               in.Text,
		AuthorID:           in.Author.ID,
		AuthorName:         in.Author.ResolveDisplayName(),
		AuthorProfilePhoto: in.Author.ProfilePhoto,
		PublicationID:      publication.ID,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.reconcileComments(ctx, publication); err != nil {
		return nil, err
	}

	return s.getPublication(ctx, in.PublicationID)
}

func (s *PublicationService) GetComments(ctx context.Context, publicationID string) ([]models.CommentView, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	if _, err := s.getPublication(ctx, publicationID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, publicationID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views, nil
}

// DeleteComment removes a comment after checking the caller authored it.
// The ownership check happens before any write.
func (s *PublicationService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	publication, err := s.getPublication(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.GetComment(ctx, in.PublicationID, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.CommentID)
		}
		return nil, models.NewInternalError(err)
	}

	if comment.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.repo.DeleteComment(ctx, in.CommentID); err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.reconcileComments(ctx, publication); err != nil {
		return nil, err
	}

	return s.getPublication(ctx, in.PublicationID)
}

// reconcileComments recounts the children and writes the count to the parent.
// Recounting makes the operation idempotent regardless of prior drift.
func (s *PublicationService) reconcileComments(ctx context.Context, publication *models.Publication) error {
	count, err := s.repo.CountComments(ctx, publication.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.repo.Updates(ctx, publication, map[string]any{"comments": int(count)}); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// FixCommentsCounter reconciles a single publication's comment counter and
// returns the corrected value.
func (s *PublicationService) FixCommentsCounter(ctx context.Context, publicationID string) (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}

	publication, err := s.getPublication(ctx, publicationID)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.CountComments(ctx, publication.ID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	if err := s.repo.Updates(ctx, publication, map[string]any{"comments": int(count)}); err != nil {
		return 0, models.NewInternalError(err)
	}

	middleware.CommentCounterFixes.Inc()
	return int(count), nil
}

// FixAllCommentsCounters reconciles every publication and returns how many
// counters actually changed.
func (s *PublicationService) FixAllCommentsCounters(ctx context.Context) (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}

	publications, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	fixed := 0
	for _, publication := range publications {
		count, err := s.repo.CountComments(ctx, publication.ID)
		if err != nil {
			return fixed, models.NewInternalError(err)
		}
		if publication.Comments == int(count) {
			continue
		}
		if err := s.repo.Updates(ctx, publication, map[string]any{"comments": int(count)}); err != nil {
			return fixed, models.NewInternalError(err)
		}
		middleware.CommentCounterFixes.Inc()
		fixed++
		middleware.Logger.Info("comment counter reconciled",
			slog.String("publication_id", publication.ID),
			slog.Int("was", publication.Comments),
			slog.Int("now", int(count)),
		)
	}
	return fixed, nil
}

// Update merges the given fields into the publication. Only the author may
// update; the check runs before any write.
func (s *PublicationService) Update(ctx context.Context, in UpdatePublicationInput) (*models.Publication, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	publication, err := s.getPublication(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}

	if publication.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own publications")
	}

	fields := map[string]any{}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.Media != nil {
		if len(*in.Media) > models.MaxPublicationMedia {
			return nil, models.NewValidationError("Too many media files (max 5)")
		}
		fields["media"] = *in.Media
	}
	if len(fields) > 0 {
		if err := s.repo.Updates(ctx, publication, fields); err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	return s.getPublication(ctx, in.PublicationID)
}

// Remove deactivates the publication. The row and its comments stay in the
// store and the publication remains fetchable by id.
func (s *PublicationService) Remove(ctx context.Context, publicationID, userID string) error {
	if err := s.guard(); err != nil {
		return err
	}

	publication, err := s.getPublication(ctx, publicationID)
	if err != nil {
		return err
	}

	if publication.AuthorID != userID {
		return models.NewUnauthorizedError("You can only delete your own publications")
	}

	if err := s.repo.Updates(ctx, publication, map[string]any{"is_active": false}); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
