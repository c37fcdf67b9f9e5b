package version

import (
	"net/http"
	"runtime"

	"photo-contest-backend/config"

	"github.com/gin-gonic/gin"
)

// Version information
var (
	// Version is the current version of the application
	Version    = "1.0.0"
	GoVersion  = runtime.Version()
	ServerCode = "PC_SERVER_2024_1.0.0"
)

// GetInfoResponse holds all version information
type GetInfoResponse struct {
	Version      string `json:"version"`
	GoVersion    string `json:"go_version"`
	ServerCode   string `json:"server_code"`
	ServerEnv    string `json:"server_env"`
	DatabaseName string `json:"database_name"`
}

// GetInfo returns version information
func GetInfo(cfg *config.Config) GetInfoResponse {
	return GetInfoResponse{
		Version:      Version,
		GoVersion:    GoVersion,
		ServerCode:   ServerCode,
		ServerEnv:    cfg.AppEnv,
		DatabaseName: cfg.GetDatabaseName(),
	}
}

type Handler struct {
	config *config.Config
}

func NewHandler(config *config.Config) *Handler {
	return &Handler{config: config}
}

func (h *Handler) HandleGetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, GetInfo(h.config))
}
