package routes

import (
	"context"
	"net/http"
	"time"

	"photo-contest-backend/authentication"
	"photo-contest-backend/contest"
	"photo-contest-backend/entry"
	"photo-contest-backend/live"
	"photo-contest-backend/users"
	"photo-contest-backend/version"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HealthChecker reports whether the document store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handlers groups everything the route table dispatches to.
type Handlers struct {
	Contest *contest.Handler
	Entry   *entry.Handler
	Users   *users.Handler
	Auth    *authentication.Handler
	Version *version.Handler
	Live    *live.Hub
	Health  HealthChecker
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS())

	requireAdmin := h.Auth.RequireAdmin()

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World")
	})
	r.GET("/health", handleHealth(h.Health))
	r.GET("/version", h.Version.HandleGetInfo)
	r.GET("/live", h.Live.HandleSubscribe)

	// Contests
	r.POST("/createcontest", requireAdmin, h.Contest.HandleCreateContest)
	r.GET("/contests", h.Contest.HandleListContests)
	r.GET("/contest", h.Contest.HandleGetAllContests)
	r.GET("/contest/:id", h.Contest.HandleGetContest)
	r.DELETE("/contest/:id", requireAdmin, h.Contest.HandleDeleteContest)

	// Entries
	r.POST("/contest/:id/:email/image", h.Entry.HandleUploadEntry)
	r.GET("/entries/:id", h.Entry.HandleGetContestEntries)
	r.GET("/entries", h.Entry.HandleGetEntries)
	r.GET("/entry/:id/:email", h.Entry.HandleGetUserEntry)
	r.PATCH("/vote/:id", h.Entry.HandleVote)

	// Users
	r.POST("/user", h.Users.HandleCreateUser)
	r.PUT("/user", h.Users.HandleUpsertUser)
	r.PUT("/users", requireAdmin, h.Users.HandleMakeAdmin)
	r.GET("/users", h.Users.HandleGetUsers)
	r.GET("/users/:email", h.Users.HandleCheckAdmin)

	return r
}

func handleHealth(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
