package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"adotapet/internal/config"
	"adotapet/internal/models"
	"adotapet/internal/repository"
	"adotapet/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Publication{},
		&models.PublicationLike{},
		&models.Comment{},
		&models.Animal{},
		&models.AdoptionRequest{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	db := setupHandlerTestDB(t)

	cfg := &config.Config{
		JWTSecret: "test-secret-for-handler-tests",
		Env:       "test",
	}

	userRepo := repository.NewUserRepository(db)
	publicationRepo := repository.NewPublicationRepository(db)
	animalRepo := repository.NewAnimalRepository(db)
	adoptionRepo := repository.NewAdoptionRequestRepository(db)

	s := &Server{
		config:          cfg,
		db:              db,
		userRepo:        userRepo,
		publicationRepo: publicationRepo,
		animalRepo:      animalRepo,
		adoptionRepo:    adoptionRepo,
	}
	s.publicationService = service.NewPublicationService(publicationRepo)
	s.animalService = service.NewAnimalService(animalRepo)
	s.adoptionService = service.NewAdoptionService(adoptionRepo, publicationRepo, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

func createHandlerTestUser(t *testing.T, s *Server, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Email:     email,
		Password:  "irrelevant",
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)

	token, err := s.generateToken(user)
	require.NoError(t, err)
	return user, token
}

func jsonRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodePublication(t *testing.T, resp *http.Response) models.Publication {
	t.Helper()
	var publication models.Publication
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&publication))
	return publication
}

func TestCreatePublication_RequiresAuth(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", "", fiber.Map{"text": "oi"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreatePublication_JSON(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, token := createHandlerTestUser(t, s, db, "maria@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", token, fiber.Map{
		"text":  "Rex procura um lar",
		"media": []string{"/media/publications/1_rex.webp"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	publication := decodePublication(t, resp)
	assert.Equal(t, "Rex procura um lar", publication.Text)
	assert.Equal(t, "Test User", publication.AuthorName)
	assert.True(t, publication.IsActive)
}

func TestCreatePublication_EmptyText(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, token := createHandlerTestUser(t, s, db, "maria@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", token, fiber.Map{"text": ""}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPublication_NotFound(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/publications/missing", "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePublication_NonAuthorGets403(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, authorToken := createHandlerTestUser(t, s, db, "maria@example.com")
	_, strangerToken := createHandlerTestUser(t, s, db, "joao@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", authorToken, fiber.Map{"text": "original"}))
	require.NoError(t, err)
	publication := decodePublication(t, resp)

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/publications/"+publication.ID, strangerToken, fiber.Map{"text": "hacked"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a missing publication also reports 403 on update
	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/publications/missing", strangerToken, fiber.Map{"text": "x"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeletePublication_SoftDeleteFlow(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, token := createHandlerTestUser(t, s, db, "maria@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", token, fiber.Map{"text": "tchau"}))
	require.NoError(t, err)
	publication := decodePublication(t, resp)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/publications/"+publication.ID, token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// feed no longer contains it
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/publications", "", nil))
	require.NoError(t, err)
	var feed []models.Publication
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	assert.Empty(t, feed)

	// but the detail route still serves it
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/publications/"+publication.ID, "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodePublication(t, resp)
	assert.False(t, got.IsActive)
}

func TestToggleLike_Endpoint(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, authorToken := createHandlerTestUser(t, s, db, "maria@example.com")
	liker, likerToken := createHandlerTestUser(t, s, db, "joao@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", authorToken, fiber.Map{"text": "curtam"}))
	require.NoError(t, err)
	publication := decodePublication(t, resp)

	likePath := fmt.Sprintf("/publications/%s/like", publication.ID)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, likePath, likerToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodePublication(t, resp)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, []string{liker.ID}, got.LikedBy)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, likePath, likerToken, nil))
	require.NoError(t, err)
	got = decodePublication(t, resp)
	assert.Equal(t, 0, got.Likes)
	assert.Empty(t, got.LikedBy)

	// liking a missing publication is a 400
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/publications/missing/like", likerToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentEndpoints(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, authorToken := createHandlerTestUser(t, s, db, "maria@example.com")
	_, commenterToken := createHandlerTestUser(t, s, db, "joao@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", authorToken, fiber.Map{"text": "comentem"}))
	require.NoError(t, err)
	publication := decodePublication(t, resp)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/publications/"+publication.ID+"/comment", commenterToken, fiber.Map{"text": "lindo!"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodePublication(t, resp)
	assert.Equal(t, 1, got.Comments)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/publications/"+publication.ID+"/comments", "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.CommentView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "lindo!", comments[0].Text)
	assert.NotEmpty(t, comments[0].CreatedAt)

	// the publication author cannot delete someone else's comment
	deletePath := "/publications/" + publication.ID + "/comments/" + comments[0].ID
	resp, err = app.Test(jsonRequest(t, http.MethodDelete, deletePath, authorToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, deletePath, commenterToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got = decodePublication(t, resp)
	assert.Equal(t, 0, got.Comments)
}

func TestFixCommentsEndpoints(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, token := createHandlerTestUser(t, s, db, "maria@example.com")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", token, fiber.Map{"text": "contagem"}))
	require.NoError(t, err)
	publication := decodePublication(t, resp)

	// drift the counter directly in the store
	require.NoError(t, db.Model(&models.Publication{}).
		Where("id = ?", publication.ID).
		Update("comments", 12).Error)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/publications/"+publication.ID+"/fix-comments", token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fixResp struct {
		Comments int `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fixResp))
	assert.Equal(t, 0, fixResp.Comments)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/publications/fix-all-comments", token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetMyPublications(t *testing.T) {
	t.Parallel()
	s, app, db := newTestServer(t)
	_, mariaToken := createHandlerTestUser(t, s, db, "maria@example.com")
	_, joaoToken := createHandlerTestUser(t, s, db, "joao@example.com")

	_, err := app.Test(jsonRequest(t, http.MethodPost, "/publications", mariaToken, fiber.Map{"text": "da maria"}))
	require.NoError(t, err)
	_, err = app.Test(jsonRequest(t, http.MethodPost, "/publications", joaoToken, fiber.Map{"text": "do joão"}))
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/publications/my", mariaToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var mine []models.Publication
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "da maria", mine[0].Text)
}
