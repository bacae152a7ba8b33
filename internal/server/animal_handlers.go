package server

import (
	"adotapet/internal/models"
	"adotapet/internal/repository"
	"adotapet/internal/service"

	"github.com/gofiber/fiber/v2"
)

func respondAnimalError(c *fiber.Ctx, err error) error {
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

// CreateAnimal handles POST /animals
func (s *Server) CreateAnimal(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Species     string `json:"species"`
		Breed       string `json:"breed"`
		Age         int    `json:"age"`
		Size        string `json:"size"`
		Location    string `json:"location"`
		Description string `json:"description"`
		Vaccinated  bool   `json:"vaccinated"`
		Neutered    bool   `json:"neutered"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	animal, err := s.animalService.Create(c.Context(), service.CreateAnimalInput{
		ShelterID:   s.currentUserID(c),
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Size:        req.Size,
		Location:    req.Location,
		Description: req.Description,
		Vaccinated:  req.Vaccinated,
		Neutered:    req.Neutered,
	})
	if err != nil {
		return respondAnimalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(animal)
}

// GetAnimals handles GET /animals with optional equality filters.
func (s *Server) GetAnimals(c *fiber.Ctx) error {
	filter := repository.AnimalFilter{
		Species:   c.Query("species"),
		Size:      c.Query("size"),
		Location:  c.Query("location"),
		ShelterID: c.Query("shelterId"),
	}
	animals, err := s.animalService.List(c.Context(), filter)
	if err != nil {
		return respondAnimalError(c, err)
	}
	return c.JSON(animals)
}

// GetAnimal handles GET /animals/:id
func (s *Server) GetAnimal(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	animal, err := s.animalService.Get(c.Context(), id)
	if err != nil {
		return respondAnimalError(c, err)
	}
	return c.JSON(animal)
}

// UpdateAnimal handles PUT /animals/:id
func (s *Server) UpdateAnimal(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Name        *string `json:"name"`
		Breed       *string `json:"breed"`
		Age         *int    `json:"age"`
		Size        *string `json:"size"`
		Location    *string `json:"location"`
		Description *string `json:"description"`
		Vaccinated  *bool   `json:"vaccinated"`
		Neutered    *bool   `json:"neutered"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	animal, err := s.animalService.Update(c.Context(), service.UpdateAnimalInput{
		AnimalID:    id,
		UserID:      s.currentUserID(c),
		Name:        req.Name,
		Breed:       req.Breed,
		Age:         req.Age,
		Size:        req.Size,
		Location:    req.Location,
		Description: req.Description,
		Vaccinated:  req.Vaccinated,
		Neutered:    req.Neutered,
	})
	if err != nil {
		return respondAnimalError(c, err)
	}
	return c.JSON(animal)
}

// DeleteAnimal handles DELETE /animals/:id
func (s *Server) DeleteAnimal(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.animalService.Delete(c.Context(), id, s.currentUserID(c)); err != nil {
		return respondAnimalError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Animal removed"})
}
