package controllers

import (
	"net/http"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck handles GET /api/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bigfoot API is running",
	})
}

// DatabaseStatus handles GET /api/database/status - checks database connectivity and lists tables
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		respondError(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database is not configured")
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to get database instance", err)
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		zap.L().Error("database ping failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "DATABASE_CONNECTION_ERROR", "Database connection failed")
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		respondInternalError(c, "DATABASE_QUERY_ERROR", "Failed to query tables", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"driver":  db.Dialector.Name(),
		"tables":  tables,
	})
}
