package repository

import (
	"context"
	"testing"

	"adotapet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPublicationTestDB(t *testing.T) *gorm.DB {
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
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createTestPublication(t *testing.T, repo PublicationRepository, authorID string) *models.Publication {
	t.Helper()
	publication := &models.Publication{
		Text:        "Procurando um lar para o Rex",
		AuthorID:    authorID,
		AuthorName:  "Maria",
		AuthorEmail: "maria@example.com",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(context.Background(), publication))
	return publication
}

func TestPublicationRepository_CreateAndGetByID(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))
	ctx := context.Background()

	created := createTestPublication(t, repo, "author-1")
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Procurando um lar para o Rex", got.Text)
	assert.True(t, got.IsActive)
	assert.NotNil(t, got.LikedBy)
	assert.Empty(t, got.LikedBy)
}

func TestPublicationRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPublicationRepository_ListActive(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))
	ctx := context.Background()

	active := createTestPublication(t, repo, "author-1")
	inactive := createTestPublication(t, repo, "author-1")
	require.NoError(t, repo.Updates(ctx, inactive, map[string]any{"is_active": false}))

	publications, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, publications, 1)
	assert.Equal(t, active.ID, publications[0].ID)

	// the deactivated row is still addressable by id
	got, err := repo.GetByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestPublicationRepository_ListActiveByAuthor(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))
	ctx := context.Background()

	createTestPublication(t, repo, "author-1")
	createTestPublication(t, repo, "author-2")

	publications, err := repo.ListActiveByAuthor(ctx, "author-1")
	require.NoError(t, err)
	require.Len(t, publications, 1)
	assert.Equal(t, "author-1", publications[0].AuthorID)
}

func TestPublicationRepository_Likes(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))
	ctx := context.Background()

	publication := createTestPublication(t, repo, "author-1")

	liked, err := repo.HasLiked(ctx, publication.ID, "user-1")
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.AddLike(ctx, publication.ID, "user-1"))
	// duplicate insert is a no-op, the liker set stays a set
	require.NoError(t, repo.AddLike(ctx, publication.ID, "user-1"))

	liked, err = repo.HasLiked(ctx, publication.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := repo.GetByID(ctx, publication.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, got.LikedBy)

	require.NoError(t, repo.RemoveLike(ctx, publication.ID, "user-1"))
	got, err = repo.GetByID(ctx, publication.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LikedBy)
}

func TestPublicationRepository_Comments(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))
	ctx := context.Background()

	publication := createTestPublication(t, repo, "author-1")

	comment := &models.Comment{
		Text:          "Que lindo!",
		AuthorID:      "user-1",
		AuthorName:    "João",
		PublicationID: publication.ID,
	}
	require.NoError(t, repo.AddComment(ctx, comment))
	assert.NotEmpty(t, comment.ID)

	count, err := repo.CountComments(ctx, publication.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err := repo.GetComment(ctx, publication.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Que lindo!", got.Text)

	// a comment id only resolves under its own publication
	other := createTestPublication(t, repo, "author-2")
	_, err = repo.GetComment(ctx, other.ID, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	comments, err := repo.ListComments(ctx, publication.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, repo.DeleteComment(ctx, comment.ID))
	count, err = repo.CountComments(ctx, publication.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestPublicationRepository_Updates(t *testing.T) {
	t.Parallel()
	repo := NewPublicationRepository(setupPublicationTestDB(t))
	ctx := context.Background()

	publication := createTestPublication(t, repo, "author-1")
	require.NoError(t, repo.Updates(ctx, publication, map[string]any{"likes": 3, "text": "novo texto"}))

	got, err := repo.GetByID(ctx, publication.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Likes)
	assert.Equal(t, "novo texto", got.Text)
}
