package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"campushub/internal/apperr"
	"campushub/internal/mocks"
	"campushub/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthController() (*AuthController, *mocks.MockUserRepository) {
	userRepo := new(mocks.MockUserRepository)
	return NewAuthController(userRepo), userRepo
}

func TestRegister(t *testing.T) {
	controller, userRepo := setupAuthController()
	userRepo.On("GetUserByEmail", "new@campus.edu").Return(nil, apperr.ErrNotFound)
	userRepo.On("GetUserByUsername", "newuser").Return(nil, apperr.ErrNotFound)
	userRepo.On("CreateUser", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(0).(*models.User)
			user.ID = 1
			assert.Equal(t, models.RoleUser, user.Role)
			assert.NotEqual(t, "secret123", user.Password)
		}).
		Return(nil)

	router := setupTestRouter()
	router.POST("/api/auth/register", controller.Register)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "newuser",
		"email":    "new@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	userRepo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	controller, userRepo := setupAuthController()
	userRepo.On("GetUserByEmail", "taken@campus.edu").
		Return(&models.User{ID: 1, Email: "taken@campus.edu"}, nil)

	router := setupTestRouter()
	router.POST("/api/auth/register", controller.Register)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "newuser",
		"email":    "taken@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	controller, userRepo := setupAuthController()
	userRepo.On("GetUserByEmail", "new@campus.edu").Return(nil, apperr.ErrNotFound)
	userRepo.On("GetUserByUsername", "taken").
		Return(&models.User{ID: 1, Username: "taken"}, nil)

	router := setupTestRouter()
	router.POST("/api/auth/register", controller.Register)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "taken",
		"email":    "new@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestRegisterInsertConflict(t *testing.T) {
	// Two concurrent registers can both pass the duplicate checks; the
	// loser's insert hits the unique index and must still answer 409.
	controller, userRepo := setupAuthController()
	userRepo.On("GetUserByEmail", "new@campus.edu").Return(nil, apperr.ErrNotFound)
	userRepo.On("GetUserByUsername", "newuser").Return(nil, apperr.ErrNotFound)
	userRepo.On("CreateUser", mock.AnythingOfType("*models.User")).Return(apperr.ErrConflict)

	router := setupTestRouter()
	router.POST("/api/auth/register", controller.Register)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "newuser",
		"email":    "new@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterShortPassword(t *testing.T) {
	controller, userRepo := setupAuthController()

	router := setupTestRouter()
	router.POST("/api/auth/register", controller.Register)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "newuser",
		"email":    "new@campus.edu",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything)
}

func TestLogin(t *testing.T) {
	controller, userRepo := setupAuthController()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	userRepo.On("GetUserByUsername", "alice").Return(&models.User{
		ID:       1,
		Username: "alice",
		Password: string(hash),
		Role:     models.RoleUser,
	}, nil)

	router := setupTestRouter()
	router.POST("/api/auth/login", controller.Login)

	w := performRequest(router, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	controller, userRepo := setupAuthController()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	userRepo.On("GetUserByUsername", "alice").Return(&models.User{
		ID:       1,
		Username: "alice",
		Password: string(hash),
	}, nil)

	router := setupTestRouter()
	router.POST("/api/auth/login", controller.Login)

	w := performRequest(router, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	controller, userRepo := setupAuthController()
	userRepo.On("GetUserByUsername", "ghost").Return(nil, apperr.ErrNotFound)

	router := setupTestRouter()
	router.POST("/api/auth/login", controller.Login)

	w := performRequest(router, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ghost",
		"password": "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
