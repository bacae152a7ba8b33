package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"adotapet/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesUserAndToken(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":     "maria@example.com",
		"password":  "Adotapet123",
		"firstName": "Maria",
		"lastName":  "Silva",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "maria@example.com", body.User.Email)
	assert.Equal(t, models.UserTypeAdopter, body.User.UserType)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing email", fiber.Map{"password": "Adotapet123"}},
		{"missing password", fiber.Map{"email": "maria@example.com"}},
		{"bad email", fiber.Map{"email": "not-an-email", "password": "Adotapet123"}},
		{"weak password", fiber.Map{"email": "maria@example.com", "password": "short"}},
		{"bad user type", fiber.Map{"email": "maria@example.com", "password": "Adotapet123", "userType": "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/register", "", tt.body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	body := fiber.Map{"email": "maria@example.com", "password": "Adotapet123"}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/register", "", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/auth/register", "", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "maria@example.com",
		"password": "Adotapet123",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "maria@example.com",
		"password": "Adotapet123",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)

	// the token works against a protected route
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/users/me", body.Token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	_, app, _ := newTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "maria@example.com",
		"password": "Adotapet123",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "maria@example.com",
		"password": "WrongPassword1",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "unknown@example.com",
		"password": "Adotapet123",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
