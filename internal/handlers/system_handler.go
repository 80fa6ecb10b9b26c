package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sampatti/internal/database"
	apperrors "sampatti/internal/errors"
)

// SystemHandler handles health checks and internal operational endpoints.
type SystemHandler struct {
	dbManager *database.Manager
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(dbManager *database.Manager) *SystemHandler {
	return &SystemHandler{dbManager: dbManager}
}

// Health reports service and database health
// @Summary     Health check
// @Tags        system
// @Produce     json
// @Success     200 {object} map[string]string "Service healthy"
// @Failure     503 {object} map[string]string "Database unreachable"
// @Router      /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	sqlDB, err := h.dbManager.DB().DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// InitDatabase drops and re-creates the schema
// @Summary     Initialize database
// @Description Drop all tables and re-apply migrations. Internal endpoint, guarded by the X-API-Key header.
// @Tags        system
// @Produce     json
// @Success     200 {object} map[string]string "Schema reset"
// @Failure     401 {object} ErrorResponse "Missing or invalid API key"
// @Router      /internal/init-db [post]
func (h *SystemHandler) InitDatabase(c *gin.Context) {
	if err := h.dbManager.Reset(); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database initialized"})
}
