package users

import (
	"context"
	"net/http"
	"time"

	"photo-contest-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

const dbTimeout = 5 * time.Second

type Handler struct {
	users Store
	// protectRole keeps role changes behind the admin guard. The open user
	// routes then never write a role from the request body.
	protectRole bool
}

func NewHandler(users Store, protectRole bool) *Handler {
	return &Handler{
		users:       users,
		protectRole: protectRole,
	}
}

// HandleCreateUser stores the request body as a new user document
func (h *Handler) HandleCreateUser(c *gin.Context) {
	var user bson.M
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if h.protectRole {
		delete(user, "role")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	result, err := h.users.Insert(ctx, user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleUpsertUser replaces the whole document of the user with the body's
// email, creating it when absent.
func (h *Handler) HandleUpsertUser(c *gin.Context) {
	var user bson.M
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email, _ := user["email"].(string)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if h.protectRole {
		delete(user, "role")
		existing, err := h.users.FindByEmail(ctx, email)
		if err != nil {
			log.Error().Err(err).Str("email", email).Msg("Failed to find user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if role, ok := existing["role"]; ok {
			user["role"] = role
		}
	}

	result, err := h.users.Replace(ctx, email, user)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to upsert user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update user"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleMakeAdmin sets role admin on the user, creating it when absent. Other
// fields of an existing user are kept.
func (h *Handler) HandleMakeAdmin(c *gin.Context) {
	var req MakeAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	result, err := h.users.PromoteAdmin(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to promote user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update user"})
		return
	}

	log.Info().Str("email", req.Email).Msg("User promoted to admin")
	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleGetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	users, err := h.users.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// HandleCheckAdmin reports whether the user exists with role admin
func (h *Handler) HandleCheckAdmin(c *gin.Context) {
	email := c.Param("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, AdminResponse{Admin: IsAdmin(user)})
}

// IsAdmin reports whether a user document carries the admin role.
func IsAdmin(user bson.M) bool {
	if user == nil {
		return false
	}
	role, _ := user["role"].(string)
	return role == models.RoleAdmin
}
