package handlers

import (
	"net/http"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus reports whether the service and its database are reachable.
// Unauthenticated so the frontend can render a maintenance banner.
func GetSystemStatus(c *gin.Context) {
	dbStatus := "online"
	if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "offline"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "online",
		"database": dbStatus,
	})
}
