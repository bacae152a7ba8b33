package service

import (
	"context"
	"testing"

	"adotapet/internal/models"
	"adotapet/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAdoptionService(t *testing.T) (*AdoptionService, *PublicationService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Publication{},
		&models.PublicationLike{},
		&models.Comment{},
		&models.AdoptionRequest{},
	))

	publicationRepo := repository.NewPublicationRepository(db)
	adoptionRepo := repository.NewAdoptionRequestRepository(db)
	return NewAdoptionService(adoptionRepo, publicationRepo, nil),
		NewPublicationService(publicationRepo), db
}

func adoptionTestUsers(t *testing.T, db *gorm.DB) (author, requester *models.User) {
	t.Helper()
	author = &models.User{Email: "maria@example.com", Password: "x", DisplayName: "Maria"}
	requester = &models.User{Email: "joao@example.com", Password: "x", DisplayName: "João"}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(requester).Error)
	return author, requester
}

func TestAdoptionCreate(t *testing.T) {
	t.Parallel()
	svc, pubSvc, db := setupAdoptionService(t)
	ctx := context.Background()
	author, requester := adoptionTestUsers(t, db)

	publication, err := pubSvc.Create(ctx, CreatePublicationInput{Author: author, Text: "Rex procura um lar"})
	require.NoError(t, err)

	request, err := svc.Create(ctx, CreateAdoptionRequestInput{
		PublicationID: publication.ID,
		Requester:     requester,
		RequesterInfo: models.RequesterInfo{Phone: "11 99999-0000", Housing: "casa com quintal"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AdoptionStatusPending, request.Status)
	assert.Equal(t, author.Email, request.PublicationAuthorEmail)
	assert.Equal(t, "Rex procura um lar", request.PublicationText)
	assert.Equal(t, "João", request.RequesterName)
	assert.Equal(t, "casa com quintal", request.RequesterInfo.Housing)
}

func TestAdoptionCreate_Rejections(t *testing.T) {
	t.Parallel()
	svc, pubSvc, db := setupAdoptionService(t)
	ctx := context.Background()
	author, requester := adoptionTestUsers(t, db)

	publication, err := pubSvc.Create(ctx, CreatePublicationInput{Author: author, Text: "ativo"})
	require.NoError(t, err)

	// own publication
	_, err = svc.Create(ctx, CreateAdoptionRequestInput{PublicationID: publication.ID, Requester: author})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	// missing publication
	_, err = svc.Create(ctx, CreateAdoptionRequestInput{PublicationID: "missing", Requester: requester})
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	// soft-deleted publication
	require.NoError(t, pubSvc.Remove(ctx, publication.ID, author.ID))
	_, err = svc.Create(ctx, CreateAdoptionRequestInput{PublicationID: publication.ID, Requester: requester})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestAdoptionListing(t *testing.T) {
	t.Parallel()
	svc, pubSvc, db := setupAdoptionService(t)
	ctx := context.Background()
	author, requester := adoptionTestUsers(t, db)

	publication, err := pubSvc.Create(ctx, CreatePublicationInput{Author: author, Text: "listem"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateAdoptionRequestInput{PublicationID: publication.ID, Requester: requester})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, requester.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	received, err := svc.ListReceived(ctx, author.Email)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	received, err = svc.ListReceived(ctx, requester.Email)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestAdoptionUpdateStatus(t *testing.T) {
	t.Parallel()
	svc, pubSvc, db := setupAdoptionService(t)
	ctx := context.Background()
	author, requester := adoptionTestUsers(t, db)

	publication, err := pubSvc.Create(ctx, CreatePublicationInput{Author: author, Text: "decidam"})
	require.NoError(t, err)
	request, err := svc.Create(ctx, CreateAdoptionRequestInput{PublicationID: publication.ID, Requester: requester})
	require.NoError(t, err)

	// only approved/rejected are decisions
	_, err = svc.UpdateStatus(ctx, request.ID, author.Email, "pending")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	// the requester cannot decide their own request
	_, err = svc.UpdateStatus(ctx, request.ID, requester.Email, models.AdoptionStatusApproved)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	updated, err := svc.UpdateStatus(ctx, request.ID, author.Email, models.AdoptionStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.AdoptionStatusApproved, updated.Status)

	stored, err := svc.ListReceived(ctx, author.Email)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.AdoptionStatusApproved, stored[0].Status)
}

func TestAdoptionService_StorageUnavailable(t *testing.T) {
	t.Parallel()
	svc := NewAdoptionService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAdoptionRequestInput{PublicationID: "x", Requester: &models.User{ID: "u"}})
	assert.Equal(t, models.CodeStorageUnavailable, models.ErrorCode(err))
	_, err = svc.ListMine(ctx, "u")
	assert.Equal(t, models.CodeStorageUnavailable, models.ErrorCode(err))
	_, err = svc.UpdateStatus(ctx, "r", "maria@example.com", models.AdoptionStatusApproved)
	assert.Equal(t, models.CodeStorageUnavailable, models.ErrorCode(err))
}
