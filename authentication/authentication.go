package authentication

import (
	"context"
	"net/http"
	"strings"
	"time"

	"photo-contest-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const dbTimeout = 5 * time.Second

type Handler struct {
	users     RoleLookup
	jwtSecret []byte
}

func NewHandler(users RoleLookup, jwtSecret []byte) *Handler {
	return &Handler{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Enabled reports whether a signing secret is configured.
func (h *Handler) Enabled() bool {
	return len(h.jwtSecret) > 0
}

// RequireAdmin guards admin routes. It accepts an HS256 bearer token whose
// email claim belongs to a user with role admin. Without a configured secret
// every request passes.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return h.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		email, _ := claims["email"].(string)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email in token"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		user, err := h.users.FindByEmail(ctx, email)
		if err != nil {
			log.Error().Err(err).Str("email", email).Msg("Failed to look up user role")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			c.Abort()
			return
		}

		role, _ := user["role"].(string)
		if role != models.RoleAdmin {
			log.Warn().Str("email", email).Str("path", c.FullPath()).Msg("Admin route denied")
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}

		c.Set(ContextEmail, email)
		c.Set(ContextRole, role)
		c.Next()
	}
}
