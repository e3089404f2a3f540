package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
)

// Stable machine-checkable error reasons.
const (
	ReasonValidationError    = "validation_error"
	ReasonNotFound           = "not_found"
	ReasonUnauthorized       = "unauthorized"
	ReasonConflict           = "conflict"
	ReasonAlreadyJoined      = "already_joined"
	ReasonAlreadyCheckedIn   = "already_checked_in"
	ReasonNotAParticipant    = "not_a_participant"
	ReasonCodeSpaceExhausted = "code_space_exhausted"
	ReasonStorageError       = "storage_error"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid token")
			}
			return
		}

		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, ReasonUnauthorized, "Invalid token or missing claims")
			return
		}

		// Store UserID as string (Hex representation)
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// abortWithError returns a stable reason plus a human-readable message and
// aborts the request. Internals never leak to the caller.
func abortWithError(c *gin.Context, code int, reason, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": reason, "message": message})
}

// getUserIDFromContext returns the authenticated user's ObjectID.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, errors.New("malformed user ID in context")
	}
	return id, nil
}
