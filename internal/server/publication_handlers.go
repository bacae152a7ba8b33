package server

import (
	"io"
	"mime/multipart"
	"strings"

	"adotapet/internal/models"
	"adotapet/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentUploads = 3

// CreatePublication handles POST /publications. Accepts either JSON with
// media URLs or multipart form data with up to 5 image files.
func (s *Server) CreatePublication(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	var text string
	var media []string

	contentType := c.Get(fiber.HeaderContentType)
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		form, formErr := c.MultipartForm()
		if formErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid multipart form"))
		}
		if vals := form.Value["text"]; len(vals) > 0 {
			text = vals[0]
		}
		files := form.File["media"]
		if len(files) > models.MaxPublicationMedia {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Too many media files (max 5)"))
		}
		media, err = s.uploadMedia(c, files)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
	} else {
		var req struct {
			Text  string   `json:"text"`
			Media []string `json:"media"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		text = req.Text
		media = req.Media
	}

	publication, err := s.publicationService.Create(c.Context(), service.CreatePublicationInput{
		Author: user,
		Text:   text,
		Media:  media,
	})
	if err != nil {
		return s.respondPublicationError(c, err, fiber.StatusBadRequest)
	}
	return c.Status(fiber.StatusCreated).JSON(publication)
}

// uploadMedia stores all files in parallel. Any failure aborts the whole
// batch and the create fails wholesale.
func (s *Server) uploadMedia(c *fiber.Ctx, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.store == nil {
		return nil, models.NewStorageUnavailableError()
	}

	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(c.Context())
	g.SetLimit(maxConcurrentUploads)

	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			f, err := fh.Open()
			if err != nil {
				return models.NewValidationError("Could not read uploaded file")
			}
			defer func() { _ = f.Close() }()

			content, err := io.ReadAll(f)
			if err != nil {
				return models.NewValidationError("Could not read uploaded file")
			}

			url, err := s.store.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), content)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// GetPublications handles GET /publications
func (s *Server) GetPublications(c *fiber.Ctx) error {
	publications, err := s.publicationService.FindAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(publications)
}

// GetMyPublications handles GET /publications/my
func (s *Server) GetMyPublications(c *fiber.Ctx) error {
	publications, err := s.publicationService.FindByUser(c.Context(), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(publications)
}

// GetPublication handles GET /publications/:id
func (s *Server) GetPublication(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	publication, err := s.publicationService.FindOne(c.Context(), id)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(publication)
}

// UpdatePublication handles PUT /publications/:id. Any failure, including
// a missing publication, is reported as 403.
func (s *Server) UpdatePublication(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	var req struct {
		Text  *string   `json:"text"`
		Media *[]string `json:"media"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewValidationError("Invalid request body"))
	}

	publication, err := s.publicationService.Update(c.Context(), service.UpdatePublicationInput{
		PublicationID: id,
		UserID:        s.currentUserID(c),
		Text:          req.Text,
		Media:         req.Media,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}
	return c.JSON(publication)
}

// DeletePublication handles DELETE /publications/:id (soft delete). Any
// failure is reported as 403.
func (s *Server) DeletePublication(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	if err := s.publicationService.Remove(c.Context(), id, s.currentUserID(c)); err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}
	return c.JSON(fiber.Map{"message": "Publication removed"})
}

// ToggleLike handles POST /publications/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	publication, err := s.publicationService.ToggleLike(c.Context(), id, s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(publication)
}

// AddComment handles POST /publications/:id/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	publication, err := s.publicationService.AddComment(c.Context(), service.AddCommentInput{
		PublicationID: id,
		Author:        user,
		Text:          req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(publication)
}

// GetComments handles GET /publications/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	comments, err := s.publicationService.GetComments(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /publications/:id/comments/:commentId. Any
// failure is reported as 403.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}
	commentID, err := requireParam(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}

	publication, err := s.publicationService.DeleteComment(c.Context(), service.DeleteCommentInput{
		PublicationID: id,
		CommentID:     commentID,
		UserID:        s.currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusForbidden, err)
	}
	return c.JSON(publication)
}

// FixCommentsCounter handles POST /publications/:id/fix-comments
func (s *Server) FixCommentsCounter(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	count, err := s.publicationService.FixCommentsCounter(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Comments counter fixed",
		"comments": count,
	})
}

// FixAllCommentsCounters handles POST /publications/fix-all-comments
func (s *Server) FixAllCommentsCounters(c *fiber.Ctx) error {
	fixed, err := s.publicationService.FixAllCommentsCounters(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comments counters fixed",
		"fixed":   fixed,
	})
}

// respondPublicationError maps service errors to HTTP statuses, using
// fallback for validation-class failures.
func (s *Server) respondPublicationError(c *fiber.Ctx, err error, fallback int) error {
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	case models.CodeUnauthorized:
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	case models.CodeInternal, models.CodeStorageUnavailable:
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	default:
		return models.RespondWithError(c, fallback, err)
	}
}
