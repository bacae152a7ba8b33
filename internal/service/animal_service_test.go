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

func setupAnimalService(t *testing.T) *AnimalService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Animal{}))
	return NewAnimalService(repository.NewAnimalRepository(db))
}

func TestAnimalCreateAndGet(t *testing.T) {
	t.Parallel()
	svc := setupAnimalService(t)
	ctx := context.Background()

	animal, err := svc.Create(ctx, CreateAnimalInput{
		ShelterID: "shelter-1",
		Name:      "Rex",
		Species:   "cachorro",
		Size:      models.AnimalSizeMedium,
		Location:  "São Paulo",
	})
	require.NoError(t, err)
	require.NotEmpty(t, animal.ID)

	got, err := svc.Get(ctx, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.Name)

	_, err = svc.Get(ctx, "missing")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestAnimalCreate_Validation(t *testing.T) {
	t.Parallel()
	svc := setupAnimalService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAnimalInput{Species: "gato"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = svc.Create(ctx, CreateAnimalInput{Name: "Mia"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = svc.Create(ctx, CreateAnimalInput{Name: "Mia", Species: "gato", Size: "gigante"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestAnimalList_Filters(t *testing.T) {
	t.Parallel()
	svc := setupAnimalService(t)
	ctx := context.Background()

	seed := []CreateAnimalInput{
		{ShelterID: "s1", Name: "Rex", Species: "cachorro", Size: models.AnimalSizeLarge, Location: "São Paulo"},
		{ShelterID: "s1", Name: "Mia", Species: "gato", Size: models.AnimalSizeSmall, Location: "São Paulo"},
		{ShelterID: "s2", Name: "Bob", Species: "cachorro", Size: models.AnimalSizeSmall, Location: "Curitiba"},
	}
	for _, in := range seed {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, repository.AnimalFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dogs, err := svc.List(ctx, repository.AnimalFilter{Species: "cachorro"})
	require.NoError(t, err)
	assert.Len(t, dogs, 2)

	smallDogs, err := svc.List(ctx, repository.AnimalFilter{Species: "cachorro", Size: models.AnimalSizeSmall})
	require.NoError(t, err)
	require.Len(t, smallDogs, 1)
	assert.Equal(t, "Bob", smallDogs[0].Name)

	byShelter, err := svc.List(ctx, repository.AnimalFilter{ShelterID: "s1"})
	require.NoError(t, err)
	assert.Len(t, byShelter, 2)
}

func TestAnimalUpdate_OwnershipAndMerge(t *testing.T) {
	t.Parallel()
	svc := setupAnimalService(t)
	ctx := context.Background()

	animal, err := svc.Create(ctx, CreateAnimalInput{
		ShelterID: "shelter-1",
		Name:      "Rex",
		Species:   "cachorro",
		Age:       2,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateAnimalInput{AnimalID: animal.ID, UserID: "stranger"})
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	newAge := 3
	vaccinated := true
	updated, err := svc.Update(ctx, UpdateAnimalInput{
		AnimalID:   animal.ID,
		UserID:     "shelter-1",
		Age:        &newAge,
		Vaccinated: &vaccinated,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Age)
	assert.True(t, updated.Vaccinated)
	// untouched fields keep their values
	assert.Equal(t, "Rex", updated.Name)

	badSize := "gigante"
	_, err = svc.Update(ctx, UpdateAnimalInput{AnimalID: animal.ID, UserID: "shelter-1", Size: &badSize})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestAnimalDelete(t *testing.T) {
	t.Parallel()
	svc := setupAnimalService(t)
	ctx := context.Background()

	animal, err := svc.Create(ctx, CreateAnimalInput{ShelterID: "shelter-1", Name: "Rex", Species: "cachorro"})
	require.NoError(t, err)

	err = svc.Delete(ctx, animal.ID, "stranger")
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	require.NoError(t, svc.Delete(ctx, animal.ID, "shelter-1"))

	_, err = svc.Get(ctx, animal.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
