package api

import (
	"errors"
	"net/http"
	"time"

	"vivafit/internal/domain"
	"vivafit/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name      string     `json:"name" binding:"required"`
	Email     string     `json:"email" binding:"required,email"`
	Phone     string     `json:"phone"`
	Birthdate *time.Time `json:"birthdate"`
	Password  string     `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone,omitempty"`
	Birthdate *time.Time         `json:"birthdate,omitempty"`
	Program   domain.ProgramKind `json:"program,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password, req.Birthdate)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, ReasonConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": MapUserToResponse(user)})
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, ReasonValidationError, err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, ReasonStorageError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	}})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Birthdate: user.Birthdate,
		Program:   user.Program,
		CreatedAt: user.CreatedAt,
	}
}
