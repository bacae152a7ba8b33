package server

import (
	"adotapet/internal/models"
	"adotapet/internal/service"

	"github.com/gofiber/fiber/v2"
)

func respondAdoptionError(c *fiber.Ctx, err error) error {
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	case models.CodeValidation:
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	case models.CodeUnauthorized:
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}

// CreateAdoptionRequest handles POST /adoption-requests
func (s *Server) CreateAdoptionRequest(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	var req struct {
		PublicationID string               `json:"publicationId"`
		RequesterInfo models.RequesterInfo `json:"requesterInfo"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PublicationID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("publicationId is required"))
	}

	request, err := s.adoptionService.Create(c.Context(), service.CreateAdoptionRequestInput{
		PublicationID: req.PublicationID,
		Requester:     user,
		RequesterInfo: req.RequesterInfo,
	})
	if err != nil {
		return respondAdoptionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetMyAdoptionRequests handles GET /adoption-requests/my-requests
func (s *Server) GetMyAdoptionRequests(c *fiber.Ctx) error {
	requests, err := s.adoptionService.ListMine(c.Context(), s.currentUserID(c))
	if err != nil {
		return respondAdoptionError(c, err)
	}
	return c.JSON(requests)
}

// GetReceivedAdoptionRequests handles GET /adoption-requests/received
func (s *Server) GetReceivedAdoptionRequests(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	requests, err := s.adoptionService.ListReceived(c.Context(), user.Email)
	if err != nil {
		return respondAdoptionError(c, err)
	}
	return c.JSON(requests)
}

// UpdateAdoptionRequestStatus handles PUT /adoption-requests/:id/status
func (s *Server) UpdateAdoptionRequestStatus(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	request, err := s.adoptionService.UpdateStatus(c.Context(), id, user.Email, req.Status)
	if err != nil {
		return respondAdoptionError(c, err)
	}
	return c.JSON(request)
}
