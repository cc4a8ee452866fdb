package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusConnected = "connected"
	statusError     = "error"
	statusDisabled  = "disabled"
)

// Health returns a JSON health check response. A nil db means the in-memory
// store is in use; a nil rdb means the queue and price cache are off. Neither
// makes the service unhealthy.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "memory"
		if db != nil {
			dbStatus = statusConnected
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = statusError
			}
		}

		redisStatus := statusDisabled
		if rdb != nil {
			redisStatus = statusConnected
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = statusError
			}
		}

		status := http.StatusOK
		if dbStatus == statusError || redisStatus == statusError {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}
