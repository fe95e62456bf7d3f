package middleware

import (
	"campushub/internal/models"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token issued by the identity
// provider and stores the verified user id, username and role in the
// request context for the handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authorization header is required",
				"error":   "Missing authorization token",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid authorization header format",
				"error":   "Use format: Bearer {token}",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]
		jwtSecret := []byte(os.Getenv("JWT_SECRET_KEY"))

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret, nil
		})

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
			userID, okID := claims["user_id"].(float64)
			role, okRole := claims["role"].(string)
			if !okID || !okRole {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  "error",
					"message": "Invalid token claims",
					"error":   "Token validation failed",
				})
				c.Abort()
				return
			}
			c.Set("user_id", uint(userID))
			c.Set("role", models.Role(role))
			if username, ok := claims["username"].(string); ok {
				c.Set("username", username)
			}
			c.Next()
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid token claims",
				"error":   "Token validation failed",
			})
			c.Abort()
			return
		}
	}
}

// Identity pulls the verified caller out of the context. ok is false when
// the request went through no auth middleware.
func Identity(c *gin.Context) (userID uint, role models.Role, ok bool) {
	idVal, exists := c.Get("user_id")
	if !exists {
		return 0, "", false
	}
	userID, ok = idVal.(uint)
	if !ok {
		return 0, "", false
	}
	if roleVal, exists := c.Get("role"); exists {
		if r, okRole := roleVal.(models.Role); okRole {
			role = r
		}
	}
	return userID, role, true
}
