package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adotapet/internal/middleware"
	"adotapet/internal/models"
	"adotapet/internal/notifications"
	"adotapet/internal/repository"
)

// AdoptionService manages adoption requests and author notifications.
type AdoptionService struct {
	repo            repository.AdoptionRequestRepository
	publicationRepo repository.PublicationRepository
	notifier        *notifications.Notifier
}

type CreateAdoptionRequestInput struct {
	PublicationID string
	Requester     *models.User
	RequesterInfo models.RequesterInfo
}

func NewAdoptionService(
	repo repository.AdoptionRequestRepository,
	publicationRepo repository.PublicationRepository,
	notifier *notifications.Notifier,
) *AdoptionService {
	return &AdoptionService{
		repo:            repo,
		publicationRepo: publicationRepo,
		notifier:        notifier,
	}
}

// Create records a request against an active publication and notifies the
// publication author. Notification is fire-and-forget: failures are logged
// and never fail the request.
func (s *AdoptionService) Create(ctx context.Context, in CreateAdoptionRequestInput) (*models.AdoptionRequest, error) {
	if s.repo == nil || s.publicationRepo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	if in.Requester == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	publication, err := s.publicationRepo.GetByID(ctx, in.PublicationID)
	if err != nil {
		return nil, models.NewNotFoundError("Publication", in.PublicationID)
	}
	if !publication.IsActive {
		return nil, models.NewValidationError("Publication is no longer active")
	}
	if publication.AuthorID == in.Requester.ID {
		return nil, models.NewValidationError("You cannot request your own publication")
	}

	request := &models.AdoptionRequest{
		PublicationID:          publication.ID,
		PublicationAuthorEmail: publication.AuthorEmail,
		PublicationText:        publication.Text,
		RequesterID:            in.Requester.ID,
		RequesterEmail:         in.Requester.Email,
		RequesterName:          in.Requester.ResolveDisplayName(),
		RequesterInfo:          in.RequesterInfo,
		Status:                 models.AdoptionStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	go s.notifyAuthor(request)

	return request, nil
}

func (s *AdoptionService) notifyAuthor(request *models.AdoptionRequest) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload := notifications.AdoptionRequestNotification{
		RequestID:      request.ID,
		PublicationID:  request.PublicationID,
		RequesterName:  request.RequesterName,
		RequesterEmail: request.RequesterEmail,
		Message:        fmt.Sprintf("%s quer adotar seu pet", request.RequesterName),
	}
	if err := s.notifier.PublishAdoptionRequest(ctx, request.PublicationAuthorEmail, payload); err != nil {
		middleware.Logger.Warn("adoption request notification failed",
			slog.String("request_id", request.ID),
			slog.String("error", err.Error()),
		)
	}
}

// ListMine returns the requests the user created, newest first.
func (s *AdoptionService) ListMine(ctx context.Context, requesterID string) ([]*models.AdoptionRequest, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	return s.repo.ListByRequester(ctx, requesterID)
}

// ListReceived returns the requests targeting the user's publications.
func (s *AdoptionService) ListReceived(ctx context.Context, userEmail string) ([]*models.AdoptionRequest, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	return s.repo.ListByPublicationAuthor(ctx, userEmail)
}

// UpdateStatus moves a request to approved or rejected. Only the publication
// author may decide.
func (s *AdoptionService) UpdateStatus(ctx context.Context, requestID, userEmail, status string) (*models.AdoptionRequest, error) {
	if s.repo == nil {
		return nil, models.NewStorageUnavailableError()
	}
	if status != models.AdoptionStatusApproved && status != models.AdoptionStatusRejected {
		return nil, models.NewValidationError("Status must be approved or rejected")
	}

	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.PublicationAuthorEmail != userEmail {
		return nil, models.NewUnauthorizedError("You can only decide requests for your own publications")
	}

	if err := s.repo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, err
	}
	request.Status = status
	return request, nil
}
